package metrics

import (
	"context"

	"pizza-service/internal/httpx"
)

// Sink receives encoded export requests.
type Sink interface {
	Send(ctx context.Context, payload []byte) error
}

// HTTPSink posts payloads to an OTLP/JSON HTTP endpoint. The bearer header is
// sent on every post, even with an empty key.
type HTTPSink struct {
	client *httpx.Client
	url    string
	apiKey string
}

func NewHTTPSink(client *httpx.Client, url, apiKey string) *HTTPSink {
	return &HTTPSink{client: client, url: url, apiKey: apiKey}
}

func (s *HTTPSink) Send(ctx context.Context, payload []byte) error {
	return s.client.PostJSON(ctx, s.url, map[string]string{"Authorization": "Bearer " + s.apiKey}, payload)
}
