package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestPostJSONSendsHeadersAndBody(t *testing.T) {
	var gotAuth, gotType string
	var got map[string]any
	c := NewClientWithTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		gotType = req.Header.Get("Content-Type")
		if req.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", req.Method)
		}
		if err := json.NewDecoder(req.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"ok":true}`), nil
	}))

	status, raw, err := c.PostJSONWithResponse(context.Background(), "https://sink.example.com", BearerHeader("k1"), map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if status != http.StatusOK || string(raw) != `{"ok":true}` {
		t.Fatalf("unexpected response: %d %s", status, raw)
	}
	if gotAuth != "Bearer k1" || gotType != "application/json" {
		t.Fatalf("headers: auth=%q type=%q", gotAuth, gotType)
	}
	if got["a"] != float64(1) {
		t.Fatalf("body = %v", got)
	}
}

func TestPostJSONPassesRawBytesThrough(t *testing.T) {
	c := NewClientWithTransport(roundTripFunc(func(req *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(req.Body)
		if string(b) != `{"raw":true}` {
			t.Fatalf("body = %s", b)
		}
		return jsonResponse(http.StatusNoContent, ""), nil
	}))
	if err := c.PostJSON(context.Background(), "https://sink.example.com", nil, []byte(`{"raw":true}`)); err != nil {
		t.Fatalf("post: %v", err)
	}
}

func TestPostJSONNon2xxIsStatusError(t *testing.T) {
	c := NewClientWithTransport(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"message":"bad key"}`), nil
	}))
	status, raw, err := c.PostJSONWithResponse(context.Background(), "https://sink.example.com", nil, struct{}{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status != http.StatusUnauthorized || se.Status != http.StatusUnauthorized || !strings.Contains(string(raw), "bad key") {
		t.Fatalf("unexpected result: %d %s %+v", status, raw, se)
	}
}

func TestBearerHeaderEmpty(t *testing.T) {
	if h := BearerHeader(""); h != nil {
		t.Fatalf("BearerHeader(\"\") = %v, want nil", h)
	}
}
