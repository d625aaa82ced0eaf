package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetFranchises returns every franchise with its stores. Admins and store
// revenue are only filled in when detailed is set.
func (s *Store) GetFranchises(ctx context.Context, detailed bool) ([]Franchise, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM franchises ORDER BY name`)
	if err != nil {
		return nil, err
	}
	out, err := scanFranchises(rows)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.fillFranchise(ctx, &out[i], detailed); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetUserFranchises returns the franchises the user administers, in detail.
func (s *Store) GetUserFranchises(ctx context.Context, userID string) ([]Franchise, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT f.id, f.name FROM franchises f JOIN user_roles ur ON ur.object_id = f.id WHERE ur.user_id = $1 AND ur.role = $2 ORDER BY f.name`, userID, string(RoleFranchisee))
	if err != nil {
		return nil, err
	}
	out, err := scanFranchises(rows)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.fillFranchise(ctx, &out[i], true); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) GetFranchise(ctx context.Context, id string) (*Franchise, error) {
	var f Franchise
	if err := s.DB.QueryRowContext(ctx, `SELECT id, name FROM franchises WHERE id = $1`, id).Scan(&f.ID, &f.Name); err != nil {
		return nil, mapNotFound(err)
	}
	if err := s.fillFranchise(ctx, &f, true); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFranchise creates a franchise and grants the franchisee role to every
// admin email. An email without an account fails with ErrUnknownUser.
func (s *Store) CreateFranchise(ctx context.Context, name string, adminEmails []string) (*Franchise, error) {
	f := &Franchise{ID: NewID(), Name: name, Admins: []FranchiseAdmin{}, Stores: []PizzaStore{}}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, email := range adminEmails {
			var a FranchiseAdmin
			err := tx.QueryRowContext(ctx, `SELECT id, name, email FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email))).Scan(&a.ID, &a.Name, &a.Email)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrUnknownUser, email)
			}
			if err != nil {
				return err
			}
			f.Admins = append(f.Admins, a)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO franchises (id, name) VALUES ($1,$2)`, f.ID, f.Name); err != nil {
			return mapUniqueViolation(err)
		}
		for _, a := range f.Admins {
			if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role, object_id) VALUES ($1,$2,$3)`, a.ID, string(RoleFranchisee), f.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) DeleteFranchise(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM stores WHERE franchise_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE role = $1 AND object_id = $2`, string(RoleFranchisee), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM franchises WHERE id = $1`, id)
		return err
	})
}

func (s *Store) CreateStore(ctx context.Context, franchiseID, name string) (*PizzaStore, error) {
	st := &PizzaStore{ID: NewID(), Name: name}
	if _, err := s.DB.ExecContext(ctx, `INSERT INTO stores (id, franchise_id, name) VALUES ($1,$2,$3)`, st.ID, franchiseID, name); err != nil {
		return nil, err
	}
	zero := 0.0
	st.TotalRevenue = &zero
	return st, nil
}

func (s *Store) DeleteStore(ctx context.Context, franchiseID, storeID string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM stores WHERE franchise_id = $1 AND id = $2`, franchiseID, storeID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) fillFranchise(ctx context.Context, f *Franchise, detailed bool) error {
	rows, err := s.DB.QueryContext(ctx, `SELECT s.id, s.name, COALESCE(SUM(oi.price), 0)
FROM stores s
LEFT JOIN diner_orders o ON o.store_id = s.id
LEFT JOIN order_items oi ON oi.order_id = o.id
WHERE s.franchise_id = $1
GROUP BY s.id, s.name
ORDER BY s.name`, f.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	f.Stores = []PizzaStore{}
	for rows.Next() {
		var st PizzaStore
		var revenue float64
		if err := rows.Scan(&st.ID, &st.Name, &revenue); err != nil {
			return err
		}
		if detailed {
			st.TotalRevenue = &revenue
		}
		f.Stores = append(f.Stores, st)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !detailed {
		return nil
	}

	adminRows, err := s.DB.QueryContext(ctx, `SELECT u.id, u.name, u.email FROM user_roles ur JOIN users u ON u.id = ur.user_id WHERE ur.role = $1 AND ur.object_id = $2 ORDER BY u.name`, string(RoleFranchisee), f.ID)
	if err != nil {
		return err
	}
	defer adminRows.Close()
	f.Admins = []FranchiseAdmin{}
	for adminRows.Next() {
		var a FranchiseAdmin
		if err := adminRows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return err
		}
		f.Admins = append(f.Admins, a)
	}
	return adminRows.Err()
}

func scanFranchises(rows *sql.Rows) ([]Franchise, error) {
	defer rows.Close()
	out := []Franchise{}
	for rows.Next() {
		var f Franchise
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
