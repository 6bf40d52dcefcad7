package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/models"
	ucAvailability "github.com/campuscare/counselling-api/internal/usecase/availability"
)

// PublicHandler serves the unauthenticated booking page: counsellor
// directory and free-slot lookups.
type PublicHandler struct {
	db      *gorm.DB
	slotsUC *ucAvailability.GetDaySlots
}

func NewPublicHandler(db *gorm.DB, slotsUC *ucAvailability.GetDaySlots) *PublicHandler {
	return &PublicHandler{db: db, slotsUC: slotsUC}
}

func (h *PublicHandler) ListCounsellors(c *gin.Context) {
	var counsellors []models.Counsellor
	if err := h.db.
		Order("display_name ASC").
		Find(&counsellors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_counsellors", "Could not load counsellors.")
		return
	}

	c.JSON(200, counsellors)
}

func (h *PublicHandler) DaySlots(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid counsellor id.")
		return
	}

	dateStr := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	slots, err := h.slotsUC.Execute(c.Request.Context(), uint(id), date)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(200, gin.H{"slots": slots})
}
