package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/domain/availability"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/middleware"
	"github.com/campuscare/counselling-api/internal/models"
)

// AvailabilityHandler manages a counsellor's own recurring windows. Only
// the owning counsellor ever writes here.
type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

type CreateWindowRequest struct {
	Weekday   *int   `json:"weekday" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

func (h *AvailabilityHandler) resolveCounsellor(c *gin.Context) (*models.Counsellor, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var counsellor models.Counsellor
	if err := h.db.Where("user_id = ?", userID).First(&counsellor).Error; err != nil {
		httperr.Forbidden(c, "forbidden", "Not a counsellor.")
		return nil, false
	}
	return &counsellor, true
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	counsellor, ok := h.resolveCounsellor(c)
	if !ok {
		return
	}

	var windows []models.AvailabilityWindow
	if err := h.db.
		Where("counsellor_id = ?", counsellor.ID).
		Order("weekday ASC, start_time ASC").
		Find(&windows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_windows", "Could not load availability.")
		return
	}

	c.JSON(200, windows)
}

func (h *AvailabilityHandler) Create(c *gin.Context) {
	counsellor, ok := h.resolveCounsellor(c)
	if !ok {
		return
	}

	var req CreateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Weekday == nil {
		httperr.BadRequest(c, "invalid_request", "Invalid window payload.")
		return
	}

	var existing []models.AvailabilityWindow
	if err := h.db.
		Where("counsellor_id = ?", counsellor.ID).
		Find(&existing).Error; err != nil {
		httperr.Internal(c, "failed_to_list_windows", "Could not load availability.")
		return
	}

	if err := availability.ValidateWindow(*req.Weekday, req.StartTime, req.EndTime, existing); err != nil {
		writeError(c, err)
		return
	}

	window := models.AvailabilityWindow{
		CounsellorID: counsellor.ID,
		Weekday:      *req.Weekday,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	if err := h.db.Create(&window).Error; err != nil {
		httperr.Internal(c, "failed_to_create_window", "Could not save availability.")
		return
	}

	c.JSON(201, window)
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	counsellor, ok := h.resolveCounsellor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid window id.")
		return
	}

	res := h.db.
		Where("id = ? AND counsellor_id = ?", uint(id), counsellor.ID).
		Delete(&models.AvailabilityWindow{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_window", "Could not delete availability.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "window_not_found", "Window not found.")
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}
