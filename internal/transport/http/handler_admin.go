package httptransport

import (
	"net/http"

	"pizza-service/internal/store"
)

// Endpoint describes one route in the API catalogue.
type Endpoint struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	RequiresAuth bool   `json:"requiresAuth,omitempty"`
	Description  string `json:"description"`
}

var endpoints = []Endpoint{
	{Method: http.MethodPost, Path: "/api/auth", Description: "Register a new user"},
	{Method: http.MethodPut, Path: "/api/auth", Description: "Login existing user"},
	{Method: http.MethodPut, Path: "/api/auth/{userID}", RequiresAuth: true, Description: "Update user"},
	{Method: http.MethodDelete, Path: "/api/auth", RequiresAuth: true, Description: "Logout a user"},
	{Method: http.MethodGet, Path: "/api/order/menu", Description: "Get the pizza menu"},
	{Method: http.MethodPut, Path: "/api/order/menu", RequiresAuth: true, Description: "Add an item to the menu"},
	{Method: http.MethodGet, Path: "/api/order", RequiresAuth: true, Description: "Get the orders for the authenticated user"},
	{Method: http.MethodPost, Path: "/api/order", RequiresAuth: true, Description: "Create a order for the authenticated user"},
	{Method: http.MethodGet, Path: "/api/franchise", Description: "List all the franchises"},
	{Method: http.MethodGet, Path: "/api/franchise/{userID}", RequiresAuth: true, Description: "List a user's franchises"},
	{Method: http.MethodPost, Path: "/api/franchise", RequiresAuth: true, Description: "Create a new franchise"},
	{Method: http.MethodDelete, Path: "/api/franchise/{franchiseID}", RequiresAuth: true, Description: "Delete a franchise"},
	{Method: http.MethodPost, Path: "/api/franchise/{franchiseID}/store", RequiresAuth: true, Description: "Create a new franchise store"},
	{Method: http.MethodDelete, Path: "/api/franchise/{franchiseID}/store/{storeID}", RequiresAuth: true, Description: "Delete a store"},
}

type AdminHandlers struct {
	store      *store.Store
	version    string
	factoryURL string
}

func NewAdminHandlers(st *store.Store, version, factoryURL string) *AdminHandlers {
	return &AdminHandlers{store: st, version: version, factoryURL: factoryURL}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "welcome to JWT Pizza", "version": h.version})
	}
}

func (h *AdminHandlers) Docs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"version":   h.version,
			"endpoints": endpoints,
			"config":    map[string]any{"factory": h.factoryURL},
		})
	}
}

func (h *AdminHandlers) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteHTTPError(w, http.StatusNotFound, "unknown_endpoint")
	}
}
