package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appfranchise "pizza-service/internal/app/franchise"

	"github.com/go-chi/chi/v5"
)

type FranchiseHandlers struct {
	svc *appfranchise.Service
}

func NewFranchiseHandlers(svc *appfranchise.Service) *FranchiseHandlers {
	return &FranchiseHandlers{svc: svc}
}

func (h *FranchiseHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := UserFromContext(r.Context())
		items, err := h.svc.List(r.Context(), actor)
		if err != nil {
			writeFranchiseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *FranchiseHandlers) ListForUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := UserFromContext(r.Context())
		items, err := h.svc.ListForUser(r.Context(), actor, chi.URLParam(r, "userID"))
		if err != nil {
			writeFranchiseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *FranchiseHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appfranchise.CreateFranchiseRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		actor, _ := UserFromContext(r.Context())
		f, err := h.svc.Create(r.Context(), actor, body)
		if err != nil {
			writeFranchiseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func (h *FranchiseHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := UserFromContext(r.Context())
		resp, err := h.svc.Delete(r.Context(), actor, chi.URLParam(r, "franchiseID"))
		if err != nil {
			writeFranchiseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *FranchiseHandlers) CreateStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appfranchise.CreateStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		actor, _ := UserFromContext(r.Context())
		st, err := h.svc.CreateStore(r.Context(), actor, chi.URLParam(r, "franchiseID"), body)
		if err != nil {
			writeFranchiseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func (h *FranchiseHandlers) DeleteStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := UserFromContext(r.Context())
		resp, err := h.svc.DeleteStore(r.Context(), actor, chi.URLParam(r, "franchiseID"), chi.URLParam(r, "storeID"))
		if err != nil {
			writeFranchiseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeFranchiseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appfranchise.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, appfranchise.ErrUnknownAdmin):
		WriteHTTPError(w, http.StatusBadRequest, "unknown_admin")
	case errors.Is(err, appfranchise.ErrForbidden):
		WriteHTTPError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, appfranchise.ErrFranchiseNotFound):
		WriteHTTPError(w, http.StatusNotFound, "franchise_not_found")
	case errors.Is(err, appfranchise.ErrStoreNotFound):
		WriteHTTPError(w, http.StatusNotFound, "store_not_found")
	case errors.Is(err, appfranchise.ErrNameTaken):
		WriteHTTPError(w, http.StatusConflict, "name_taken")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
