package store

import "time"

type RoleName string

const (
	RoleDiner      RoleName = "diner"
	RoleFranchisee RoleName = "franchisee"
	RoleAdmin      RoleName = "admin"
)

type Role struct {
	Role     RoleName `json:"role"`
	ObjectID string   `json:"objectId,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Roles []Role `json:"roles"`
}

func (u *User) HasRole(role RoleName) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

type FranchiseAdmin struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type PizzaStore struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	TotalRevenue *float64 `json:"totalRevenue,omitempty"`
}

type Franchise struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins,omitempty"`
	Stores []PizzaStore     `json:"stores"`
}

func (f *Franchise) IsAdmin(userID string) bool {
	if f == nil {
		return false
	}
	for _, a := range f.Admins {
		if a.ID == userID {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

type OrderItem struct {
	ID          string  `json:"id,omitempty"`
	MenuID      string  `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID          string      `json:"id"`
	FranchiseID string      `json:"franchiseId"`
	StoreID     string      `json:"storeId"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
}

// ItemPrices lists the price of every line item.
func (o *Order) ItemPrices() []float64 {
	if o == nil {
		return nil
	}
	out := make([]float64, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, it.Price)
	}
	return out
}

type OrderPage struct {
	DinerID string  `json:"dinerId"`
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
}
