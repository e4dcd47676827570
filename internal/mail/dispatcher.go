package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"teamhub/internal/repository"
)

const (
	dispatchInterval = 5 * time.Second
	dispatchBatch    = 50
	maxAttempts      = 5
)

// Dispatcher drains pending outbox rows into the mail queue. A row is
// marked sent only after a successful publish; publish failures bump the
// attempt counter and the row is retried on a later tick until
// maxAttempts, when it is marked failed and left for inspection.
type Dispatcher struct {
	outbox repository.OutboxRepository
	pub    Publisher
	log    zerolog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(outbox repository.OutboxRepository, pub Publisher, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{outbox: outbox, pub: pub, log: log}
}

// Run polls the outbox until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.DispatchPending(ctx); err != nil {
				d.log.Error().Err(err).Msg("outbox dispatch failed")
			}
		}
	}
}

// DispatchPending publishes one batch of pending rows.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	rows, err := d.outbox.ListPending(ctx, dispatchBatch)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if row.Attempts >= maxAttempts {
			if err := d.outbox.MarkFailed(ctx, row.ID); err != nil {
				return err
			}
			d.log.Warn().Uint("outbox_id", row.ID).Str("email", row.Email).
				Msg("registration mail gave up after max attempts")
			continue
		}

		m := RegistrationMail{
			OutboxID: row.ID,
			UserID:   row.UserID,
			Name:     row.Name,
			Email:    row.Email,
			Password: row.Password,
		}
		if err := d.pub.PublishRegistration(ctx, m); err != nil {
			d.log.Error().Err(err).Uint("outbox_id", row.ID).Msg("publish registration mail failed")
			if err := d.outbox.IncrementAttempts(ctx, row.ID); err != nil {
				return err
			}
			continue
		}

		if err := d.outbox.MarkSent(ctx, row.ID); err != nil {
			return err
		}
		d.log.Info().Uint("outbox_id", row.ID).Str("email", row.Email).Msg("registration mail queued")
	}
	return nil
}
