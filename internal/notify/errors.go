package notify

import "errors"

var (
	ErrInvalidWebhookURL = errors.New("invalid webhook url")
	ErrWebhookRejected   = errors.New("webhook rejected event")
)
