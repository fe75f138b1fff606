// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import (
	"context"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// Notifier publishes an event. Implementations swallow delivery errors.
type Notifier interface {
	Notify(ctx context.Context, event models.Event)
}

// New returns a webhook notifier when cfg.WebhookURL is set and a
// log-only notifier otherwise.
func New(cfg config.Notifier, log *logger.Logger) (Notifier, error) {
	if cfg.WebhookURL == "" {
		log.Info().Str("func", "notify.New").Msg("no webhook configured, events are only logged")
		return NewLogNotifier(log), nil
	}

	return NewWebhookNotifier(cfg, log)
}

type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier returns a [Notifier] writing every event to log.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{logger: log}
}

func (n *logNotifier) Notify(ctx context.Context, event models.Event) {
	n.logger.Info().
		Str("func", "logNotifier.Notify").
		Str("event", string(event.Type)).
		Str("recipient", event.Recipient).
		Str("user_id", event.UserID).
		Str("payment_id", event.PaymentID).
		Interface("attributes", event.Attributes).
		Msg("notification")
}
