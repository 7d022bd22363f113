// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"fleetrent/internal/cache"
	"fleetrent/internal/config"
	httptransport "fleetrent/internal/http"
	"fleetrent/internal/infra"
	"fleetrent/internal/logging"
	"fleetrent/internal/maps"
	"fleetrent/internal/migrations"
	"fleetrent/internal/modules/analytics"
	"fleetrent/internal/modules/assignment"
	"fleetrent/internal/modules/booking"
	"fleetrent/internal/modules/fleet"
	"fleetrent/internal/modules/identity"
	"fleetrent/internal/modules/pricing"
	"fleetrent/internal/modules/trip"
	"fleetrent/internal/notify"
	"fleetrent/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(os.Getenv("FLEETRENT_ENV"))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	if err := migrations.Run(ctx, dbPool); err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	responseCache := cache.NewResponseCache(redisClient, cfg.Cache.TTL, logger)

	authority := infra.NewJWTAuthority(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	identityStore := identity.NewStore(dbPool)
	identitySvc := identity.NewService(identityStore, authority)

	pricingSvc := pricing.NewService()

	fleetStore := fleet.NewStore(dbPool)
	fleetSvc := fleet.NewService(fleetStore)
	fleetSvc.SetCacheInvalidator(responseCache)

	mailer := notify.NewMailer(cfg.SMTP, logger, func(ctx context.Context, customerID string) (string, error) {
		u, err := identityStore.Get(ctx, types.ID(customerID))
		if err != nil {
			return "", err
		}
		return u.Email, nil
	})

	bookingOpts := []booking.Option{
		booking.WithNotifier(mailer),
		booking.WithCacheInvalidator(responseCache),
	}
	if cfg.Maps.APIKey != "" {
		routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		bookingOpts = append(bookingOpts, booking.WithDistanceEstimator(routeSvc))
	}

	bookingStore := booking.NewStore(dbPool)
	bookingSvc := booking.NewService(bookingStore, pricingSvc, bookingOpts...)

	tripStore := trip.NewStore(dbPool)
	tripSvc := trip.NewService(tripStore)
	tripSvc.SetCacheInvalidator(responseCache)

	assignmentStore := assignment.NewStore(dbPool)
	assignmentSvc := assignment.NewService(assignmentStore)
	assignmentSvc.SetCacheInvalidator(responseCache)

	analyticsSvc := analytics.NewService(dbPool)

	engine := httptransport.NewRouter(httptransport.Services{
		Identity:   identitySvc,
		Fleet:      fleetSvc,
		Booking:    bookingSvc,
		Trip:       tripSvc,
		Assignment: assignmentSvc,
		Analytics:  analyticsSvc,
	}, authority, responseCache, logger)

	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(engine)

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
