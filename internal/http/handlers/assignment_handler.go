// README: Driver assignment handlers; registration, review, activation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/http/middleware"
	"fleetrent/internal/modules/assignment"
	"fleetrent/internal/types"
)

type AssignmentHandler struct {
	assignment *assignment.Service
}

func NewAssignmentHandler(svc *assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{assignment: svc}
}

type registerAssignmentReq struct {
	DriverID  string `json:"driver_id"`
	VehicleID string `json:"vehicle_id"`
}

func (h *AssignmentHandler) Register(c *gin.Context) {
	var req registerAssignmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	a, err := h.assignment.Register(c.Request.Context(), middleware.Caller(c), assignment.RegisterCommand{
		DriverID:  types.ID(req.DriverID),
		VehicleID: types.ID(req.VehicleID),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, assignmentView(a))
}

type reviewAssignmentReq struct {
	Approve bool `json:"approve"`
}

func (h *AssignmentHandler) Review(c *gin.Context) {
	var req reviewAssignmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.assignment.Review(c.Request.Context(), middleware.Caller(c), assignment.ReviewCommand{
		AssignmentID: types.ID(c.Param("id")),
		Approve:      req.Approve,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	status := assignment.StatusRejected
	if req.Approve {
		status = assignment.StatusApproved
	}
	writeJSON(c, http.StatusOK, gin.H{"status": status})
}

type toggleAssignmentReq struct {
	Active bool `json:"active"`
}

func (h *AssignmentHandler) Toggle(c *gin.Context) {
	var req toggleAssignmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.assignment.Toggle(c.Request.Context(), middleware.Caller(c), assignment.ToggleCommand{
		AssignmentID: types.ID(c.Param("id")),
		Active:       req.Active,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"active": req.Active})
}

func (h *AssignmentHandler) List(c *gin.Context) {
	list, err := h.assignment.List(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	views := make([]gin.H, 0, len(list))
	for _, a := range list {
		views = append(views, assignmentView(a))
	}
	writeJSON(c, http.StatusOK, gin.H{"assignments": views})
}

func assignmentView(a *assignment.Assignment) gin.H {
	out := gin.H{
		"assignment_id": a.ID,
		"driver_id":     a.DriverID,
		"vehicle_id":    a.VehicleID,
		"status":        a.Status,
		"created_at":    a.CreatedAt,
	}
	if a.ReviewedBy != nil {
		out["reviewed_by"] = *a.ReviewedBy
	}
	if a.ReviewedAt != nil {
		out["reviewed_at"] = *a.ReviewedAt
	}
	return out
}
