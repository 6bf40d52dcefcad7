package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuscare/counselling-api/internal/config"
	"github.com/campuscare/counselling-api/internal/domain/access"
	domain "github.com/campuscare/counselling-api/internal/domain/appointment"
	"github.com/campuscare/counselling-api/internal/dto"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/httpresp"
	"github.com/campuscare/counselling-api/internal/middleware"
	ucAppointment "github.com/campuscare/counselling-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	cfg *config.Config

	bookUC       *ucAppointment.BookAppointment
	rescheduleUC *ucAppointment.RescheduleAppointment
	cancelUC     *ucAppointment.CancelAppointment
	completeUC   *ucAppointment.CompleteAppointment
	deleteUC     *ucAppointment.DeleteAppointment
	listUC       *ucAppointment.ListAppointments
	getUC        *ucAppointment.GetAppointment
	statsUC      *ucAppointment.AppointmentStats
	upcomingUC   *ucAppointment.ListUpcoming
}

func NewAppointmentHandler(
	cfg *config.Config,
	bookUC *ucAppointment.BookAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	completeUC *ucAppointment.CompleteAppointment,
	deleteUC *ucAppointment.DeleteAppointment,
	listUC *ucAppointment.ListAppointments,
	getUC *ucAppointment.GetAppointment,
	statsUC *ucAppointment.AppointmentStats,
	upcomingUC *ucAppointment.ListUpcoming,
) *AppointmentHandler {
	return &AppointmentHandler{
		cfg:          cfg,
		bookUC:       bookUC,
		rescheduleUC: rescheduleUC,
		cancelUC:     cancelUC,
		completeUC:   completeUC,
		deleteUC:     deleteUC,
		listUC:       listUC,
		getUC:        getUC,
		statsUC:      statsUC,
		upcomingUC:   upcomingUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CounsellorID uint       `json:"counsellor_id" binding:"required"`
	StudentID    *uint      `json:"student_id"`
	Mode         string     `json:"mode" binding:"required"`
	StartAt      time.Time  `json:"start_at" binding:"required"`
	EndAt        *time.Time `json:"end_at"`

	NotesEncrypted string `json:"notes_encrypted"`
	StudentEmail   string `json:"student_email"`
	Note           string `json:"note"`
}

type UpdateAppointmentRequest struct {
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
	Mode    *string    `json:"mode"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking payload.")
		return
	}

	// Helpline requests never become records; callers get the directory
	// and a human immediately.
	if domain.Mode(req.Mode) == domain.ModeHelpline {
		c.JSON(200, gin.H{
			"helplines": []gin.H{
				{
					"number": h.cfg.HelplineNumber,
					"label":  h.cfg.HelplineLabel,
				},
			},
			"message": "If you are in immediate danger call emergency services first.",
		})
		return
	}

	// Authenticated students always book for themselves, whatever the
	// payload claims. Counsellors and admins may book on behalf of others;
	// volunteers are read-only on scheduling data and may not book at all.
	if roleVal, ok := c.Get(middleware.ContextUserRole); ok {
		role := access.Role(roleVal.(string))
		if !access.CanMutate(access.Caller{Role: role}) {
			httperr.Forbidden(c, "forbidden", "You are not allowed to do that.")
			return
		}
		if role == access.RoleStudent {
			id := c.MustGet(middleware.ContextUserID).(uint)
			req.StudentID = &id
		}
	}

	in := ucAppointment.BookAppointmentInput{
		CounsellorID:   req.CounsellorID,
		StudentID:      req.StudentID,
		Mode:           domain.Mode(req.Mode),
		StartAt:        req.StartAt,
		NotesEncrypted: req.NotesEncrypted,
		StudentEmail:   req.StudentEmail,
		Note:           req.Note,
	}
	if req.EndAt != nil {
		in.EndAt = *req.EndAt
	}

	ap, err := h.bookUC.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(201, ap)
}

// ======================================================
// LIST / GET
// ======================================================

func parseFilter(c *gin.Context) domain.Filter {
	var f domain.Filter

	if v := c.Query("counsellor_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			cid := uint(id)
			f.CounsellorID = &cid
		}
	}
	if v := c.Query("student_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			sid := uint(id)
			f.StudentID = &sid
		}
	}
	f.Mode = c.Query("mode")
	f.Status = c.Query("status")

	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.StartAfter = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.StartBefore = &t
		}
	}

	return f
}

func parseSortPage(c *gin.Context) (domain.Sort, domain.Page) {
	s := domain.Sort{
		Field: c.DefaultQuery("sort_by", "start_at"),
		Desc:  c.Query("sort_order") == "desc",
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	return s, domain.Page{Offset: offset, Limit: limit}
}

func (h *AppointmentHandler) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	f := parseFilter(c)
	s, p := parseSortPage(c)

	items, total, err := h.listUC.Execute(c.Request.Context(), caller, f, s, p)
	if err != nil {
		writeError(c, err)
		return
	}

	// List payloads carry the summary projection; the notes blob and the
	// calendar attachment stay on the detail endpoint.
	out := make([]dto.AppointmentListDTO, 0, len(items))
	for _, ap := range items {
		d := dto.AppointmentListDTO{
			ID:             ap.ID,
			CounsellorID:   ap.CounsellorID,
			CounsellorName: ap.Counsellor.DisplayName,
			StudentID:      ap.StudentID,
			Mode:           ap.Mode,
			StartAt:        ap.StartAt,
			EndAt:          ap.EndAt,
			Status:         ap.Status,
			MeetingLink:    ap.MeetingLink,
		}
		if ap.Student != nil {
			d.StudentName = ap.Student.Name
		}
		out = append(out, d)
	}

	httpresp.Paged(c, out, total, p.Offset, p.Limit)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment id.")
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), caller, uint(id))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// UPDATE (reschedule)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment id.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid patch payload.")
		return
	}

	in := ucAppointment.RescheduleInput{
		AppointmentID: uint(id),
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
	}
	if req.Mode != nil {
		m := domain.Mode(*req.Mode)
		in.Mode = &m
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), caller, in)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment id.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), caller, uint(id))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment id.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), caller, uint(id))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE (admin)
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), caller, uint(id)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Appointment deleted"})
}

// ======================================================
// STATS / UPCOMING
// ======================================================

func (h *AppointmentHandler) Stats(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	stats, err := h.statsUC.Execute(c.Request.Context(), caller, parseFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, stats)
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid user id.")
		return
	}

	kind := domain.UserKind(c.Param("userType"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	items, err := h.upcomingUC.Execute(c.Request.Context(), caller, uint(userID), kind, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, items)
}
