package factory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pizza-service/internal/httpx"
	"pizza-service/internal/store"
)

// Diner identifies who the pizzas are for.
type Diner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type request struct {
	Diner Diner        `json:"diner"`
	Order *store.Order `json:"order"`
}

// Receipt is the factory's answer to a fulfilled order.
type Receipt struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl,omitempty"`
}

// RejectedError carries the report link the factory returns with a refusal.
type RejectedError struct {
	Status    int
	ReportURL string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("factory rejected order: status %d", e.Status)
}

type Client struct {
	http   *httpx.Client
	url    string
	apiKey string
}

func NewClient(client *httpx.Client, baseURL, apiKey string) *Client {
	return &Client{http: client, url: strings.TrimRight(baseURL, "/") + "/api/order", apiKey: apiKey}
}

// Fulfill asks the factory to make the pizzas in order.
func (c *Client) Fulfill(ctx context.Context, diner Diner, order *store.Order) (*Receipt, error) {
	_, raw, err := c.http.PostJSONWithResponse(ctx, c.url, httpx.BearerHeader(c.apiKey), request{Diner: diner, Order: order})
	if err != nil {
		var statusErr *httpx.StatusError
		if errors.As(err, &statusErr) {
			var r Receipt
			_ = json.Unmarshal(statusErr.Body, &r)
			return nil, &RejectedError{Status: statusErr.Status, ReportURL: r.ReportURL}
		}
		return nil, fmt.Errorf("factory request: %w", err)
	}
	var r Receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode factory response: %w", err)
	}
	return &r, nil
}
