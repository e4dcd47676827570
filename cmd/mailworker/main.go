package main

import (
	"context"
	"os/signal"
	"syscall"

	"teamhub/internal/config"
	"teamhub/internal/logger"
	"teamhub/internal/mail"
)

func main() {
	cfg := config.Load()
	log := logger.New("teamhub-mailworker")

	var notifier mail.Notifier
	if cfg.SMTPAddr != "" {
		notifier = mail.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		log.Info().Str("smtp", cfg.SMTPAddr).Msg("delivering via smtp")
	} else {
		notifier = mail.NewLogNotifier(log)
		log.Info().Msg("no SMTP_ADDR set, delivering to log")
	}

	consumer := mail.NewConsumer(cfg.AMQPURL, notifier, log)
	if err := consumer.Connect(); err != nil {
		log.Fatal().Err(err).Msg("broker connect")
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("queue", mail.RegistrationQueue).Msg("consuming registration mails")
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
}
