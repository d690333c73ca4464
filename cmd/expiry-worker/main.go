package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-booking/internal/audit"
	"github.com/BruksfildServices01/clinic-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-booking/internal/db"
	domain "github.com/BruksfildServices01/clinic-booking/internal/domain/appointment"
	infraRepo "github.com/BruksfildServices01/clinic-booking/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-booking/internal/notify"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
	ucAppointment "github.com/BruksfildServices01/clinic-booking/internal/usecase/appointment"
)

const batchSize = 100

// expiry-worker releases unpaid PENDING holds older than PENDING_HOLD_TTL.
func main() {
	cfg := config.Load()
	observability.InitLogger("clinic-expiry-worker", cfg.Env, cfg.LogLevel)

	if cfg.PendingHoldTTL <= 0 {
		log.Info().Msg("PENDING_HOLD_TTL not set, hold expiry disabled")
		return
	}

	log.Info().
		Dur("ttl", cfg.PendingHoldTTL).
		Dur("interval", cfg.ExpiryInterval).
		Msg("expiry worker starting")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := dbpkg.NewDB(cfg)

	sinks := []audit.Sink{audit.New(db)}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	if err := rdb.Ping(rootCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, expiry notifications disabled")
	} else {
		sinks = append(sinks, notify.NewRedisPublisher(rdb, cfg.NotifyQueue))
	}

	dispatcher := audit.NewDispatcher(sinks...)
	defer dispatcher.Close()

	uc := ucAppointment.NewExpirePendingHolds(
		infraRepo.NewAppointmentGormRepository(db),
		dispatcher,
		domain.SystemClock{},
	)

	// uma rodada já no startup
	runOnce(rootCtx, uc, cfg.PendingHoldTTL)

	ticker := time.NewTicker(cfg.ExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Info().Msg("shutdown signal received, stopping expiry worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, uc, cfg.PendingHoldTTL)
		}
	}
}

func runOnce(ctx context.Context, uc *ucAppointment.ExpirePendingHolds, ttl time.Duration) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	n, err := uc.Execute(runCtx, ttl, batchSize)
	if err != nil {
		log.Error().Err(err).Int("released", n).Msg("expiry run failed")
		return
	}
	log.Info().Int("released", n).Dur("took", time.Since(start)).Msg("expiry run complete")
}
