// README: Vehicle handlers for registration, listing, maintenance, and soft delete.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/http/middleware"
	"fleetrent/internal/modules/fleet"
	"fleetrent/internal/types"
)

type VehicleHandler struct {
	fleet *fleet.Service
}

func NewVehicleHandler(svc *fleet.Service) *VehicleHandler {
	return &VehicleHandler{fleet: svc}
}

type createVehicleReq struct {
	OwnerID         string `json:"owner_id"` // admin only; owners register for themselves
	Make            string `json:"make"`
	Model           string `json:"model"`
	Year            int    `json:"year"`
	LicensePlate    string `json:"license_plate"`
	DailyRateCents  int64  `json:"daily_rate_cents"`
	HourlyRateCents *int64 `json:"hourly_rate_cents"`
	Currency        string `json:"currency"`
}

func (h *VehicleHandler) Create(c *gin.Context) {
	var req createVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	cmd := fleet.CreateCommand{
		OwnerID:      types.ID(req.OwnerID),
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		DailyRate:    types.Money{Amount: req.DailyRateCents, Currency: req.Currency},
	}
	if req.HourlyRateCents != nil {
		cmd.HourlyRate = &types.Money{Amount: *req.HourlyRateCents, Currency: req.Currency}
	}
	v, err := h.fleet.Create(c.Request.Context(), middleware.Caller(c), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, vehicleView(v))
}

func (h *VehicleHandler) List(c *gin.Context) {
	vehicles, err := h.fleet.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehicleView(v))
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicles": out})
}

func (h *VehicleHandler) Get(c *gin.Context) {
	v, err := h.fleet.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, vehicleView(v))
}

type maintenanceReq struct {
	Reason string `json:"reason"`
}

func (h *VehicleHandler) SetMaintenance(c *gin.Context) {
	var req maintenanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.fleet.SetMaintenance(c.Request.Context(), middleware.Caller(c), types.ID(c.Param("id")), req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"availability": fleet.AvailabilityMaintenance})
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	cancelled, err := h.fleet.SoftDelete(c.Request.Context(), middleware.Caller(c), types.ID(c.Param("id")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": true, "bookings_cancelled": cancelled})
}

func vehicleView(v *fleet.Vehicle) gin.H {
	out := gin.H{
		"vehicle_id":       v.ID,
		"owner_id":         v.OwnerID,
		"make":             v.Make,
		"model":            v.Model,
		"year":             v.Year,
		"license_plate":    v.LicensePlate,
		"daily_rate_cents": v.DailyRate.Amount,
		"currency":         v.DailyRate.Currency,
		"availability":     v.Availability,
	}
	if v.HourlyRate != nil {
		out["hourly_rate_cents"] = v.HourlyRate.Amount
	}
	if v.StatusReason != "" {
		out["status_reason"] = v.StatusReason
	}
	return out
}
