// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleetrent/internal/cache"
	"fleetrent/internal/http/handlers"
	"fleetrent/internal/http/middleware"
	"fleetrent/internal/infra"
	"fleetrent/internal/modules/analytics"
	"fleetrent/internal/modules/assignment"
	"fleetrent/internal/modules/booking"
	"fleetrent/internal/modules/fleet"
	"fleetrent/internal/modules/identity"
	"fleetrent/internal/modules/trip"
)

type Services struct {
	Identity   *identity.Service
	Fleet      *fleet.Service
	Booking    *booking.Service
	Trip       *trip.Service
	Assignment *assignment.Service
	Analytics  *analytics.Service
}

// NewRouter wires the gin engine: recovery and request logging
// everywhere, token auth on /api except the auth routes, and the
// response cache on authenticated GETs.
func NewRouter(svcs Services, verifier infra.TokenVerifier, rc *cache.ResponseCache, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.Recovery(log), middleware.Logging(log))

	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authHandler := handlers.NewAuthHandler(svcs.Identity)
	engine.POST("/api/auth/register", authHandler.Register)
	engine.POST("/api/auth/login", authHandler.Login)

	api := engine.Group("/api", middleware.Auth(verifier))
	if rc != nil {
		api.Use(middleware.CachedGET(rc))
	}

	vehicleHandler := handlers.NewVehicleHandler(svcs.Fleet)
	api.POST("/vehicles", vehicleHandler.Create)
	api.GET("/vehicles", vehicleHandler.List)
	api.GET("/vehicles/:id", vehicleHandler.Get)
	api.PATCH("/vehicles/:id/maintenance", vehicleHandler.SetMaintenance)
	api.DELETE("/vehicles/:id", vehicleHandler.Delete)

	bookingHandler := handlers.NewBookingHandler(svcs.Booking)
	api.POST("/bookings", bookingHandler.Create)
	api.GET("/bookings", bookingHandler.List)
	api.GET("/bookings/:id", bookingHandler.Get)
	api.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)
	api.POST("/bookings/:id/cancel", bookingHandler.Cancel)
	api.DELETE("/bookings/:id", bookingHandler.Delete)

	tripHandler := handlers.NewTripHandler(svcs.Trip)
	api.GET("/trips/:id", tripHandler.Get)
	api.PATCH("/trips/:id/status", tripHandler.UpdateStatus)
	api.PATCH("/trips/:id/assign-driver", tripHandler.AssignDriver)

	assignmentHandler := handlers.NewAssignmentHandler(svcs.Assignment)
	api.POST("/assignments", assignmentHandler.Register)
	api.GET("/assignments", assignmentHandler.List)
	api.PATCH("/assignments/:id/review", assignmentHandler.Review)
	api.PATCH("/assignments/:id/status", assignmentHandler.Toggle)

	analyticsHandler := handlers.NewAnalyticsHandler(svcs.Analytics)
	api.GET("/analytics/summary", analyticsHandler.Summary)
	api.GET("/analytics/revenue", analyticsHandler.Revenue)

	return engine
}
