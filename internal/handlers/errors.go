package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/campuscare/counselling-api/internal/httperr"
)

// writeError maps business error codes onto HTTP statuses. Anything that is
// not a business error is a persistence failure: logged with detail,
// surfaced generically.
func writeError(c *gin.Context, err error) {
	switch code := httperr.BusinessCode(err); code {
	case "counsellor_not_found", "appointment_not_found":
		httperr.NotFound(c, code, "Not found.")
	case "time_conflict", "window_conflict":
		httperr.Conflict(c, code, "The requested slot is already taken.")
	case "forbidden":
		httperr.Forbidden(c, code, "You are not allowed to do that.")
	case "invalid_interval":
		httperr.BadRequest(c, code, "Appointment must start in the future and end after it starts.")
	case "outside_availability":
		httperr.BadRequest(c, code, "Requested time is outside the counsellor's published availability.")
	case "invalid_state":
		httperr.BadRequest(c, code, "Appointment is not in a state that allows this change.")
	case "invalid_request", "invalid_window", "invalid_user_kind":
		httperr.BadRequest(c, code, "Invalid request.")
	case "":
		log.Println("internal error:", err)
		httperr.Internal(c, "internal_error", "Something went wrong.")
	default:
		httperr.BadRequest(c, code, "Request failed.")
	}
}
