package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appauthn "pizza-service/internal/app/authn"
	"pizza-service/internal/auth"

	"github.com/go-chi/chi/v5"
)

type AuthHandlers struct {
	svc *appauthn.Service
}

func NewAuthHandlers(svc *appauthn.Service) *AuthHandlers {
	return &AuthHandlers{svc: svc}
}

func (h *AuthHandlers) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appauthn.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Register(r.Context(), body)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AuthHandlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appauthn.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			metricAuthLoginErrors.Add(1)
			h.svc.RejectMalformedLogin()
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		resp, err := h.svc.Login(r.Context(), body)
		if err != nil {
			metricAuthLoginErrors.Add(1)
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AuthHandlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		if err := h.svc.Logout(r.Context(), token); err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "logout successful"})
	}
}

func (h *AuthHandlers) UpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appauthn.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		actor, _ := UserFromContext(r.Context())
		resp, err := h.svc.UpdateUser(r.Context(), actor, chi.URLParam(r, "userID"), body)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appauthn.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, appauthn.ErrUnauthorized):
		WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, appauthn.ErrForbidden):
		WriteHTTPError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, appauthn.ErrEmailTaken):
		WriteHTTPError(w, http.StatusConflict, "email_taken")
	case errors.Is(err, appauthn.ErrUserNotFound):
		WriteHTTPError(w, http.StatusNotFound, "user_not_found")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
