package order

import "pizza-service/internal/store"

type AddMenuItemRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

type CreateOrderItem struct {
	MenuID      string  `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type CreateOrderRequest struct {
	FranchiseID string            `json:"franchiseId"`
	StoreID     string            `json:"storeId"`
	Items       []CreateOrderItem `json:"items"`
}

type CreateOrderResponse struct {
	Order     *store.Order `json:"order"`
	JWT       string       `json:"jwt,omitempty"`
	ReportURL string       `json:"reportSlowPizzaToFactoryUrl,omitempty"`
}

// FactoryError is returned when the factory refuses an already stored order.
type FactoryError struct {
	Order     *store.Order
	ReportURL string
	Err       error
}

func (e *FactoryError) Error() string {
	return ErrFactoryFailed.Error() + ": " + e.Err.Error()
}

func (e *FactoryError) Unwrap() error {
	return ErrFactoryFailed
}
