package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
//	client := utils.NewHTTPClient(5 * time.Second)
//	resp, err := client.R().SetBody(event).Post(url)
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent client with the given request
// timeout and a JSON content type. A zero timeout means no timeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &HTTPClient{Client: client}
}
