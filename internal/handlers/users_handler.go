package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campuscare/counselling-api/internal/audit"
	"github.com/campuscare/counselling-api/internal/domain/access"
	"github.com/campuscare/counselling-api/internal/httperr"
	"github.com/campuscare/counselling-api/internal/middleware"
	"github.com/campuscare/counselling-api/internal/models"
)

// UsersHandler carries the one piece of account management the scheduler
// owns: cascading deletion, admin only.
type UsersHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUsersHandler(db *gorm.DB, auditD *audit.Dispatcher) *UsersHandler {
	return &UsersHandler{db: db, audit: auditD}
}

func (h *UsersHandler) Delete(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	if !access.CanDeleteUser(caller) {
		httperr.Forbidden(c, "forbidden", "Only admins can delete accounts.")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid user id.")
		return
	}
	userID := uint(id)

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return httperr.ErrBusiness("user_not_found")
		}

		// Appointments referencing the user as a student.
		if err := tx.
			Where("student_id = ?", userID).
			Delete(&models.Appointment{}).Error; err != nil {
			return err
		}

		// Counsellor profile takes its appointments and windows with it.
		var counsellor models.Counsellor
		if err := tx.Where("user_id = ?", userID).First(&counsellor).Error; err == nil {
			if err := tx.
				Where("counsellor_id = ?", counsellor.ID).
				Delete(&models.Appointment{}).Error; err != nil {
				return err
			}
			if err := tx.
				Where("counsellor_id = ?", counsellor.ID).
				Delete(&models.AvailabilityWindow{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&counsellor).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&user).Error
	})

	if err != nil {
		if httperr.IsBusiness(err, "user_not_found") {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Internal(c, "failed_to_delete_user", "Could not delete user.")
		return
	}

	actorID := caller.ID
	h.audit.Dispatch(audit.Event{
		ActorID:  &actorID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &userID,
	})

	c.JSON(200, gin.H{"message": "User deleted"})
}
