package store

import (
	"context"
	"database/sql"
	"time"
)

const ordersPageSize = 10

func (s *Store) GetMenu(ctx context.Context) ([]MenuItem, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, title, description, image, price FROM menu ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MenuItem{}
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Image, &m.Price); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) AddMenuItem(ctx context.Context, item MenuItem) (*MenuItem, error) {
	item.ID = NewID()
	if _, err := s.DB.ExecContext(ctx, `INSERT INTO menu (id, title, description, image, price) VALUES ($1,$2,$3,$4,$5)`,
		item.ID, item.Title, item.Description, item.Image, item.Price); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetOrders returns one page (1-based) of a diner's orders, newest first.
func (s *Store) GetOrders(ctx context.Context, dinerID string, page int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT id, franchise_id, store_id, created_at FROM diner_orders WHERE diner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		dinerID, ordersPageSize, (page-1)*ordersPageSize)
	if err != nil {
		return nil, err
	}
	orders := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.FranchiseID, &o.StoreID, &o.Date); err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range orders {
		items, err := s.listOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return &OrderPage{DinerID: dinerID, Orders: orders, Page: page}, nil
}

// AddDinerOrder persists an order and its items; prices are stored as given.
func (s *Store) AddDinerOrder(ctx context.Context, dinerID string, order Order) (*Order, error) {
	order.ID = NewID()
	order.Date = time.Now().UTC()
	items := make([]OrderItem, 0, len(order.Items))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO diner_orders (id, diner_id, franchise_id, store_id, created_at) VALUES ($1,$2,$3,$4,$5)`,
			order.ID, dinerID, order.FranchiseID, order.StoreID, order.Date); err != nil {
			return err
		}
		for _, it := range order.Items {
			it.ID = NewID()
			if _, err := tx.ExecContext(ctx, `INSERT INTO order_items (id, order_id, menu_id, description, price) VALUES ($1,$2,$3,$4,$5)`,
				it.ID, order.ID, it.MenuID, it.Description, it.Price); err != nil {
				return err
			}
			items = append(items, it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (s *Store) listOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, menu_id, description, price FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.Description, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
