package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-quest-ledger/internal/config"
	"github.com/MKhiriev/go-quest-ledger/internal/logger"
	"github.com/MKhiriev/go-quest-ledger/internal/utils"
	"github.com/MKhiriev/go-quest-ledger/models"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body when a
// signing key is configured.
const SignatureHeader = "X-Signature"

type webhookNotifier struct {
	client     *utils.HTTPClient
	url        string
	signingKey string
	logger     *logger.Logger
}

// NewWebhookNotifier constructs a [Notifier] that POSTs every event as JSON
// to cfg.WebhookURL.
func NewWebhookNotifier(cfg config.Notifier, log *logger.Logger) (Notifier, error) {
	target, err := normalizeURL(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWebhookURL, err)
	}

	return &webhookNotifier{
		client:     utils.NewHTTPClient(cfg.Timeout),
		url:        target,
		signingKey: cfg.SigningKey,
		logger:     log,
	}, nil
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return u.String(), nil
}

func (n *webhookNotifier) Notify(ctx context.Context, event models.Event) {
	log := logger.FromContext(ctx)

	if err := n.send(ctx, event); err != nil {
		log.Err(err).
			Str("func", "webhookNotifier.Notify").
			Str("event", string(event.Type)).
			Str("user_id", event.UserID).
			Str("payment_id", event.PaymentID).
			Msg("failed to deliver notification")
		return
	}

	log.Debug().Str("func", "webhookNotifier.Notify").Str("event", string(event.Type)).Msg("notification delivered")
}

func (n *webhookNotifier) send(ctx context.Context, event models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req := n.client.R().
		SetContext(ctx).
		SetBody(body)
	if n.signingKey != "" {
		req.SetHeader(SignatureHeader, utils.SignPayload(body, n.signingKey))
	}

	resp, err := req.Post(n.url)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", ErrWebhookRejected, resp.StatusCode())
	}

	return nil
}
