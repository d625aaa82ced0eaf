package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	apporder "pizza-service/internal/app/order"
	"pizza-service/internal/store"
)

type factoryFailure struct {
	Error     string       `json:"error"`
	Message   string       `json:"message"`
	Order     *store.Order `json:"order,omitempty"`
	ReportURL string       `json:"reportPizzaCreationErrorToPizzaFactoryUrl,omitempty"`
}

type OrderHandlers struct {
	svc *apporder.Service
}

func NewOrderHandlers(svc *apporder.Service) *OrderHandlers {
	return &OrderHandlers{svc: svc}
}

func (h *OrderHandlers) Menu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.Menu(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *OrderHandlers) AddMenuItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body apporder.AddMenuItemRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		actor, _ := UserFromContext(r.Context())
		items, err := h.svc.AddMenuItem(r.Context(), actor, body)
		if err != nil {
			writeOrderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (h *OrderHandlers) Orders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := UserFromContext(r.Context())
		page, err := h.svc.Orders(r.Context(), actor, ParsePage(r))
		if err != nil {
			writeOrderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (h *OrderHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricOrderCreateTotal.Add(1)
		var body apporder.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			metricOrderCreateErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		actor, _ := UserFromContext(r.Context())
		resp, err := h.svc.Create(r.Context(), actor, body)
		if err != nil {
			metricOrderCreateErrors.Add(1)
			var fe *apporder.FactoryError
			if errors.As(err, &fe) {
				writeJSON(w, http.StatusInternalServerError, factoryFailure{
					Error:     "factory_failed",
					Message:   "Failed to fulfill order at factory",
					Order:     fe.Order,
					ReportURL: fe.ReportURL,
				})
				return
			}
			writeOrderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apporder.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, apporder.ErrInvalidMenuItem):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_menu_item")
	case errors.Is(err, apporder.ErrUnauthorized):
		WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, apporder.ErrForbidden):
		WriteHTTPError(w, http.StatusForbidden, "forbidden")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
