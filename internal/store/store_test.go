package store

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func expectMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddUserDefaultsToDinerRole(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "pizza diner", "d@jwt.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(sqlmock.AnyArg(), "diner", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	u, err := st.AddUser(context.Background(), "pizza diner", " D@jwt.com ", "diner", nil)
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if u.ID == "" || u.Email != "d@jwt.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if !u.HasRole(RoleDiner) {
		t.Fatalf("expected diner role, got %+v", u.Roles)
	}
	expectMet(t, mock)
}

func TestAddUserRollsBackOnRoleFailure(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO user_roles").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	if _, err := st.AddUser(context.Background(), "a", "a@jwt.com", "pw", []Role{{Role: RoleAdmin}}); err == nil {
		t.Fatal("expected error")
	}
	expectMet(t, mock)
}

func TestGetUserByCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	t.Run("ok", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectQuery("SELECT id, name, email, password_hash FROM users").
			WithArgs("a@jwt.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).AddRow("u1", "Alice", "a@jwt.com", string(hash)))
		mock.ExpectQuery("SELECT role, object_id FROM user_roles").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"role", "object_id"}).AddRow("admin", nil).AddRow("franchisee", "f1"))
		u, err := st.GetUserByCredentials(context.Background(), "A@jwt.com", "secret")
		if err != nil {
			t.Fatalf("get user: %v", err)
		}
		if len(u.Roles) != 2 || !u.HasRole(RoleAdmin) || u.Roles[1].ObjectID != "f1" {
			t.Fatalf("unexpected roles: %+v", u.Roles)
		}
		expectMet(t, mock)
	})

	t.Run("wrong password", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectQuery("SELECT id, name, email, password_hash FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).AddRow("u1", "Alice", "a@jwt.com", string(hash)))
		if _, err := st.GetUserByCredentials(context.Background(), "a@jwt.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		st, mock := newMockStore(t)
		mock.ExpectQuery("SELECT id, name, email, password_hash FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}))
		if _, err := st.GetUserByCredentials(context.Background(), "x@jwt.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUpdateUserNotFound(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE users SET name = \$1 WHERE id = \$2`).
		WithArgs("Bob", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := st.UpdateUser(context.Background(), "missing", UserUpdate{Name: "Bob"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestAuthTokenLifecycle(t *testing.T) {
	st, mock := newMockStore(t)
	ctx := context.Background()
	mock.ExpectExec("INSERT INTO auth").WithArgs("sig", "u1").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT user_id FROM auth").WithArgs("sig").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
	mock.ExpectExec("DELETE FROM auth").WithArgs("sig").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT user_id FROM auth").WithArgs("sig").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	if err := st.LoginUser(ctx, "u1", "sig"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if ok, err := st.IsLoggedIn(ctx, "sig"); err != nil || !ok {
		t.Fatalf("expected logged in, got %v %v", ok, err)
	}
	if err := st.LogoutUser(ctx, "sig"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ok, err := st.IsLoggedIn(ctx, "sig"); err != nil || ok {
		t.Fatalf("expected logged out, got %v %v", ok, err)
	}
	expectMet(t, mock)
}

func TestCreateFranchiseUnknownAdmin(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, email FROM users WHERE email").
		WithArgs("ghost@jwt.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))
	mock.ExpectRollback()

	_, err := st.CreateFranchise(context.Background(), "pizzaPocket", []string{"ghost@jwt.com"})
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
	expectMet(t, mock)
}

func TestCreateFranchiseGrantsRole(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, email FROM users WHERE email").
		WithArgs("f@jwt.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow("u2", "Frank", "f@jwt.com"))
	mock.ExpectExec("INSERT INTO franchises").WithArgs(sqlmock.AnyArg(), "pizzaPocket").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO user_roles").WithArgs("u2", "franchisee", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	f, err := st.CreateFranchise(context.Background(), "pizzaPocket", []string{"f@jwt.com"})
	if err != nil {
		t.Fatalf("create franchise: %v", err)
	}
	if !f.IsAdmin("u2") || len(f.Stores) != 0 {
		t.Fatalf("unexpected franchise: %+v", f)
	}
	expectMet(t, mock)
}

func TestGetFranchisesHidesRevenueUnlessDetailed(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, name FROM franchises").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("f1", "pizzaPocket"))
	mock.ExpectQuery("SELECT s.id, s.name").WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "revenue"}).AddRow("s1", "SLC", 42.5))

	out, err := st.GetFranchises(context.Background(), false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || len(out[0].Stores) != 1 {
		t.Fatalf("unexpected franchises: %+v", out)
	}
	if out[0].Stores[0].TotalRevenue != nil || out[0].Admins != nil {
		t.Fatalf("expected summary view, got %+v", out[0])
	}
	expectMet(t, mock)
}

func TestGetFranchiseDetailed(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, name FROM franchises WHERE id").WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("f1", "pizzaPocket"))
	mock.ExpectQuery("SELECT s.id, s.name").WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "revenue"}).AddRow("s1", "SLC", 42.5))
	mock.ExpectQuery("SELECT u.id, u.name, u.email FROM user_roles").WithArgs("franchisee", "f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow("u2", "Frank", "f@jwt.com"))

	f, err := st.GetFranchise(context.Background(), "f1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f.Stores[0].TotalRevenue == nil || *f.Stores[0].TotalRevenue != 42.5 {
		t.Fatalf("expected revenue, got %+v", f.Stores[0])
	}
	if !f.IsAdmin("u2") {
		t.Fatalf("expected admin u2, got %+v", f.Admins)
	}
	expectMet(t, mock)
}

func TestGetFranchiseNotFound(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, name FROM franchises WHERE id").WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	if _, err := st.GetFranchise(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteStoreNotFound(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM stores").WithArgs("f1", "s9").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := st.DeleteStore(context.Background(), "f1", "s9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	expectMet(t, mock)
}

func TestGetOrdersPaging(t *testing.T) {
	st, mock := newMockStore(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, franchise_id, store_id, created_at FROM diner_orders").
		WithArgs("u1", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "franchise_id", "store_id", "created_at"}).AddRow("o1", "f1", "s1", at))
	mock.ExpectQuery("SELECT id, menu_id, description, price FROM order_items").WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "menu_id", "description", "price"}).
			AddRow("i1", "m1", "Veggie", 0.0038).
			AddRow("i2", "m2", "Pepperoni", 0.0042))

	page, err := st.GetOrders(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if page.Page != 2 || len(page.Orders) != 1 || len(page.Orders[0].Items) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !page.Orders[0].Date.Equal(at) {
		t.Fatalf("unexpected date %v", page.Orders[0].Date)
	}
	expectMet(t, mock)
}

func TestAddDinerOrder(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO diner_orders").
		WithArgs(sqlmock.AnyArg(), "u1", "f1", "s1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "m1", "Veggie", 0.0038).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	o, err := st.AddDinerOrder(context.Background(), "u1", Order{
		FranchiseID: "f1",
		StoreID:     "s1",
		Items:       []OrderItem{{MenuID: "m1", Description: "Veggie", Price: 0.0038}},
	})
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	if o.ID == "" || o.Items[0].ID == "" || o.Date.IsZero() {
		t.Fatalf("expected ids and date, got %+v", o)
	}
	expectMet(t, mock)
}

func TestOrderItemPrices(t *testing.T) {
	var nilOrder *Order
	if nilOrder.ItemPrices() != nil {
		t.Fatal("nil order should have no prices")
	}
	o := &Order{Items: []OrderItem{{Price: 1}, {Price: 2.5}}}
	got := o.ItemPrices()
	if len(got) != 2 || got[0] != 1 || got[1] != 2.5 {
		t.Fatalf("unexpected prices %v", got)
	}
}

func TestAddUserDuplicateEmail(t *testing.T) {
	st, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	if _, err := st.AddUser(context.Background(), "a", "a@jwt.com", "pw", nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	expectMet(t, mock)
}
