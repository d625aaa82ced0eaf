package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type UserUpdate struct {
	Name     string
	Email    string
	Password string
}

func (s *Store) AddUser(ctx context.Context, name, email, password string, roles []Role) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if len(roles) == 0 {
		roles = []Role{{Role: RoleDiner}}
	}
	u := &User{ID: NewID(), Name: name, Email: strings.ToLower(strings.TrimSpace(email)), Roles: roles}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, name, email, password_hash) VALUES ($1,$2,$3,$4)`, u.ID, u.Name, u.Email, string(hash)); err != nil {
			return mapUniqueViolation(err)
		}
		for _, r := range roles {
			if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role, object_id) VALUES ($1,$2,$3)`, u.ID, string(r.Role), nullString(r.ObjectID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByCredentials returns ErrInvalidCredentials for an unknown email or a
// wrong password so callers cannot tell the two apart.
func (s *Store) GetUserByCredentials(ctx context.Context, email, password string) (*User, error) {
	var u User
	var hash string
	row := s.DB.QueryRowContext(ctx, `SELECT id, name, email, password_hash FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	roles, err := listRoles(ctx, s.DB, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	row := s.DB.QueryRowContext(ctx, `SELECT id, name, email FROM users WHERE id = $1`, id)
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return nil, mapNotFound(err)
	}
	roles, err := listRoles(ctx, s.DB, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

// UpdateUser changes the non-empty fields of upd.
func (s *Store) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if upd.Name != "" {
		args = append(args, upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Email != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(upd.Email)))
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if upd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		args = append(args, string(hash))
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if len(sets) > 0 {
		args = append(args, id)
		q := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
		res, err := s.DB.ExecContext(ctx, q, args...)
		if err != nil {
			return nil, mapUniqueViolation(err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetUser(ctx, id)
}

func (s *Store) LoginUser(ctx context.Context, userID, tokenSig string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO auth (token_sig, user_id) VALUES ($1,$2) ON CONFLICT (token_sig) DO UPDATE SET user_id = EXCLUDED.user_id`, tokenSig, userID)
	return err
}

func (s *Store) IsLoggedIn(ctx context.Context, tokenSig string) (bool, error) {
	var userID string
	err := s.DB.QueryRowContext(ctx, `SELECT user_id FROM auth WHERE token_sig = $1`, tokenSig).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) LogoutUser(ctx context.Context, tokenSig string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM auth WHERE token_sig = $1`, tokenSig)
	return err
}

func listRoles(ctx context.Context, q querier, userID string) ([]Role, error) {
	rows, err := q.QueryContext(ctx, `SELECT role, object_id FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Role{}
	for rows.Next() {
		var r Role
		var objectID sql.NullString
		if err := rows.Scan(&r.Role, &objectID); err != nil {
			return nil, err
		}
		r.ObjectID = objectID.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
