// README: Booking handlers for create, list, get, status update, and cancel.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/http/middleware"
	"fleetrent/internal/modules/booking"
	"fleetrent/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type createBookingReq struct {
	CustomerID      string    `json:"customer_id"` // admin only; customers book for themselves
	VehicleID       string    `json:"vehicle_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	BookingType     string    `json:"booking_type"`
	SpecialRequests string    `json:"special_requests"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.booking.Create(c.Request.Context(), middleware.Caller(c), booking.CreateCommand{
		CustomerID:      types.ID(req.CustomerID),
		VehicleID:       types.ID(req.VehicleID),
		Start:           req.StartDate,
		End:             req.EndDate,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		Type:            booking.BookingType(req.BookingType),
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	view := bookingView(res.Booking)
	view["trip_id"] = res.TripID
	writeJSON(c, http.StatusCreated, view)
}

func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.booking.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingView(b))
	}
	writeJSON(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.booking.Get(c.Request.Context(), middleware.Caller(c), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, bookingView(b))
}

type updateBookingStatusReq struct {
	Status string `json:"status"`
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req updateBookingStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.booking.UpdateStatus(c.Request.Context(), middleware.Caller(c), booking.UpdateStatusCommand{
		BookingID: types.ID(c.Param("id")),
		Target:    booking.Status(req.Status),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": req.Status})
}

type cancelBookingReq struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req cancelBookingReq
	// Body is optional; a bare cancel gets a role-derived default reason.
	_ = c.ShouldBindJSON(&req)
	err := h.booking.Cancel(c.Request.Context(), middleware.Caller(c), booking.CancelCommand{
		BookingID: types.ID(c.Param("id")),
		Reason:    req.Reason,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": booking.StatusCancelled})
}

func (h *BookingHandler) Delete(c *gin.Context) {
	err := h.booking.SoftDelete(c.Request.Context(), middleware.Caller(c), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": true})
}

func bookingView(b *booking.Booking) gin.H {
	out := gin.H{
		"booking_id":       b.ID,
		"customer_id":      b.CustomerID,
		"vehicle_id":       b.VehicleID,
		"status":           b.Status,
		"start_date":       b.StartDate,
		"end_date":         b.EndDate,
		"pickup_location":  b.PickupLocation,
		"dropoff_location": b.DropoffLocation,
		"booking_type":     b.Type,
		"price": gin.H{
			"base_cents":     b.Price.Base.Amount,
			"tax_cents":      b.Price.Tax.Amount,
			"discount_cents": b.Price.Discount.Amount,
			"total_cents":    b.Price.Total.Amount,
			"currency":       b.Price.Total.Currency,
		},
	}
	if b.SpecialRequests != "" {
		out["special_requests"] = b.SpecialRequests
	}
	if b.ConfirmedAt != nil {
		out["confirmed_at"] = b.ConfirmedAt
	}
	if b.Status == booking.StatusCancelled {
		cancel := gin.H{}
		if b.CancelReason != nil {
			cancel["reason"] = *b.CancelReason
		}
		if b.CancelledBy != nil {
			cancel["cancelled_by"] = *b.CancelledBy
		}
		if b.CancelledAt != nil {
			cancel["cancelled_at"] = *b.CancelledAt
		}
		out["cancellation"] = cancel
	}
	return out
}
