// README: Trip handlers for status updates and driver assignment.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/http/middleware"
	"fleetrent/internal/modules/trip"
	"fleetrent/internal/types"
)

type TripHandler struct {
	trip *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trip: svc}
}

func (h *TripHandler) Get(c *gin.Context) {
	t, err := h.trip.Get(c.Request.Context(), middleware.Caller(c), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, tripView(t))
}

type updateTripStatusReq struct {
	Status   string   `json:"status"`
	Odometer *int64   `json:"odometer"`
	Fuel     *float64 `json:"fuel"`
}

func (h *TripHandler) UpdateStatus(c *gin.Context) {
	var req updateTripStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.trip.UpdateStatus(c.Request.Context(), middleware.Caller(c), trip.UpdateStatusCommand{
		TripID:   types.ID(c.Param("id")),
		Target:   trip.Status(req.Status),
		Odometer: req.Odometer,
		Fuel:     req.Fuel,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": req.Status})
}

type assignDriverReq struct {
	DriverID string `json:"driver_id"`
}

func (h *TripHandler) AssignDriver(c *gin.Context) {
	var req assignDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.trip.AssignDriver(c.Request.Context(), middleware.Caller(c), trip.AssignDriverCommand{
		TripID:   types.ID(c.Param("id")),
		DriverID: types.ID(req.DriverID),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"driver_id": req.DriverID})
}

func tripView(t *trip.Trip) gin.H {
	out := gin.H{
		"trip_id":            t.ID,
		"booking_id":         t.BookingID,
		"vehicle_id":         t.VehicleID,
		"customer_id":        t.CustomerID,
		"status":             t.Status,
		"planned_distance_m": t.PlannedDistanceM,
		"actual_distance_m":  t.ActualDistanceM,
		"revenue_cents":      t.Revenue.Amount,
		"currency":           t.Revenue.Currency,
	}
	if t.DriverID != nil {
		out["driver_id"] = *t.DriverID
	}
	if t.OdometerStart != nil {
		out["odometer_start"] = *t.OdometerStart
	}
	if t.OdometerEnd != nil {
		out["odometer_end"] = *t.OdometerEnd
	}
	if t.FuelStart != nil {
		out["fuel_start"] = *t.FuelStart
	}
	if t.FuelEnd != nil {
		out["fuel_end"] = *t.FuelEnd
	}
	if t.StartedAt != nil {
		out["started_at"] = *t.StartedAt
	}
	if t.EndedAt != nil {
		out["ended_at"] = *t.EndedAt
	}
	return out
}
