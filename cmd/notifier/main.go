package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/clinic-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-booking/internal/db"
	infraRepo "github.com/BruksfildServices01/clinic-booking/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-booking/internal/notify"
	"github.com/BruksfildServices01/clinic-booking/internal/observability"
)

// notifier drains the notification queue and sends WhatsApp templates.
func main() {
	cfg := config.Load()
	observability.InitLogger("clinic-notifier", cfg.Env, cfg.LogLevel)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := dbpkg.NewDB(cfg)
	repo := infraRepo.NewAppointmentGormRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	if err := rdb.Ping(rootCtx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connection error")
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.WhatsAppEnabled() {
		wa, err := notify.NewWhatsAppCloudSender(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID)
		if err != nil {
			log.Fatal().Err(err).Msg("whatsapp sender")
		}
		sender = wa
	} else {
		log.Warn().Msg("whatsapp not configured, messages are only logged")
	}

	consumer := notify.NewConsumer(
		rdb,
		cfg.NotifyQueue,
		repo,
		sender,
		cfg.WhatsAppTemplateLang,
		observability.NewBookingMetrics(nil),
	)

	if err := consumer.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
	log.Info().Msg("notifier stopped")
}
