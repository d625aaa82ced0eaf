package factory

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"pizza-service/internal/httpx"
	"pizza-service/internal/store"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFulfillSendsDinerAndOrder(t *testing.T) {
	var got map[string]json.RawMessage
	client := httpx.NewClientWithTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://factory.test/api/order" {
			t.Fatalf("unexpected url %s", req.URL)
		}
		if req.Header.Get("Authorization") != "Bearer key" {
			t.Fatalf("unexpected auth header %q", req.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return respond(http.StatusOK, `{"jwt":"factory.jwt.sig","reportUrl":"http://r"}`), nil
	}))
	c := NewClient(client, "http://factory.test/", "key")
	rec, err := c.Fulfill(context.Background(), Diner{ID: "u1", Name: "d", Email: "d@jwt.com"}, &store.Order{ID: "o1"})
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if rec.JWT != "factory.jwt.sig" {
		t.Fatalf("unexpected receipt %+v", rec)
	}
	if _, ok := got["diner"]; !ok {
		t.Fatal("diner missing from request")
	}
	if _, ok := got["order"]; !ok {
		t.Fatal("order missing from request")
	}
}

func TestFulfillRejected(t *testing.T) {
	client := httpx.NewClientWithTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusInternalServerError, `{"reportUrl":"http://chaos"}`), nil
	}))
	c := NewClient(client, "http://factory.test", "key")
	_, err := c.Fulfill(context.Background(), Diner{ID: "u1"}, &store.Order{})
	var rej *RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rej.Status != http.StatusInternalServerError || rej.ReportURL != "http://chaos" {
		t.Fatalf("unexpected rejection %+v", rej)
	}
}

func TestFulfillTransportError(t *testing.T) {
	client := httpx.NewClientWithTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("dial")
	}))
	c := NewClient(client, "http://factory.test", "")
	_, err := c.Fulfill(context.Background(), Diner{}, &store.Order{})
	var rej *RejectedError
	if err == nil || errors.As(err, &rej) {
		t.Fatalf("expected plain transport error, got %v", err)
	}
}
