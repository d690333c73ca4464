package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	"github.com/BruksfildServices01/clinic-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-booking/internal/db"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-booking/internal/media"
	"github.com/BruksfildServices01/clinic-booking/internal/notify"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	"github.com/BruksfildServices01/clinic-booking/internal/payments"
	"github.com/BruksfildServices01/clinic-booking/internal/routes"
)

func main() {

	cfg := config.Load()
	observability.InitLogger("clinic-api", cfg.Env, cfg.LogLevel)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := dbpkg.NewDB(cfg)

	// ======================================================
	// AUDIT + NOTIFICATIONS
	// ======================================================
	sinks := []audit.Sink{audit.New(db)}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	pingCtx, cancelPing := context.WithTimeout(rootCtx, 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, notifications disabled")
	} else {
		sinks = append(sinks, notify.NewRedisPublisher(rdb, cfg.NotifyQueue))
	}
	cancelPing()

	dispatcher := audit.NewDispatcher(sinks...)
	defer dispatcher.Close()

	infra := routes.Infra{
		Audit:   dispatcher,
		Metrics: observability.NewBookingMetrics(nil),
		Clock:   domain.SystemClock{},
	}

	// ======================================================
	// OPTIONAL PROVIDERS
	// ======================================================
	if cfg.PaymentsEnabled() {
		gw, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentNotificationURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure payments")
		}
		infra.Payments = gw
	}

	if cfg.MediaEnabled() {
		infra.Logos = media.NewLogoStore(media.S3Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, db, cfg, infra)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Bool("payments", cfg.PaymentsEnabled()).
			Bool("media", cfg.MediaEnabled()).
			Msg("server running")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
