// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/modules/analytics"
	"fleetrent/internal/modules/assignment"
	"fleetrent/internal/modules/booking"
	"fleetrent/internal/modules/fleet"
	"fleetrent/internal/modules/identity"
	"fleetrent/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps module sentinel errors onto the stable
// status/message contract.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, booking.ErrVehicleNotFound),
		errors.Is(err, trip.ErrNotFound),
		errors.Is(err, fleet.ErrNotFound),
		errors.Is(err, identity.ErrNotFound),
		errors.Is(err, assignment.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, booking.ErrBadRequest),
		errors.Is(err, trip.ErrBadRequest),
		errors.Is(err, fleet.ErrBadRequest),
		errors.Is(err, identity.ErrBadRequest),
		errors.Is(err, assignment.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, booking.ErrVehicleUnavailable),
		errors.Is(err, booking.ErrDoubleBooked),
		errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, booking.ErrConflict),
		errors.Is(err, trip.ErrInvalidState),
		errors.Is(err, trip.ErrConflict),
		errors.Is(err, trip.ErrDriverNotApproved),
		errors.Is(err, assignment.ErrDuplicate),
		errors.Is(err, assignment.ErrInvalidState),
		errors.Is(err, identity.ErrEmailTaken):
		writeError(c, http.StatusConflict, err.Error())

	case errors.Is(err, booking.ErrForbidden),
		errors.Is(err, trip.ErrForbidden),
		errors.Is(err, fleet.ErrForbidden),
		errors.Is(err, identity.ErrForbidden),
		errors.Is(err, assignment.ErrForbidden),
		errors.Is(err, analytics.ErrForbidden):
		writeError(c, http.StatusForbidden, err.Error())

	case errors.Is(err, identity.ErrBadCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())

	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
