package franchise

import (
	"context"
	"errors"
	"testing"

	"pizza-service/internal/store"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewService(store.NewWithDB(db)), mock
}

var (
	admin      = &store.User{ID: "a1", Roles: []store.Role{{Role: store.RoleAdmin}}}
	franchisee = &store.User{ID: "u2", Roles: []store.Role{{Role: store.RoleFranchisee, ObjectID: "f1"}}}
	diner      = &store.User{ID: "u3", Roles: []store.Role{{Role: store.RoleDiner}}}
)

func expectFranchise(mock sqlmock.Sqlmock, adminID string) {
	mock.ExpectQuery("SELECT id, name FROM franchises WHERE id").WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("f1", "pizzaPocket"))
	mock.ExpectQuery("SELECT s.id, s.name").WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "revenue"}))
	mock.ExpectQuery("SELECT u.id, u.name, u.email FROM user_roles").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(adminID, "Frank", "f@jwt.com"))
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	for _, actor := range []*store.User{nil, diner, franchisee} {
		if _, err := svc.Create(context.Background(), actor, CreateFranchiseRequest{Name: "x"}); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden for %+v, got %v", actor, err)
		}
	}
	if _, err := svc.Create(context.Background(), admin, CreateFranchiseRequest{Name: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestCreateUnknownAdmin(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, email FROM users WHERE email").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), admin, CreateFranchiseRequest{Name: "pp", Admins: []AdminRef{{Email: "ghost@jwt.com"}}})
	if !errors.Is(err, ErrUnknownAdmin) {
		t.Fatalf("expected ErrUnknownAdmin, got %v", err)
	}
}

func TestListForUserHidesOthers(t *testing.T) {
	svc, mock := newTestService(t)
	out, err := svc.ListForUser(context.Background(), diner, "u2")
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty list, got %v %+v", err, out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries expected: %v", err)
	}
}

func TestCreateStoreByFranchiseAdmin(t *testing.T) {
	svc, mock := newTestService(t)
	expectFranchise(mock, "u2")
	mock.ExpectExec("INSERT INTO stores").WithArgs(sqlmock.AnyArg(), "f1", "SLC").WillReturnResult(sqlmock.NewResult(1, 1))

	st, err := svc.CreateStore(context.Background(), franchisee, "f1", CreateStoreRequest{Name: "SLC"})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if st.Name != "SLC" || st.ID == "" {
		t.Fatalf("unexpected store %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteStoreForbiddenForOutsider(t *testing.T) {
	svc, mock := newTestService(t)
	expectFranchise(mock, "u2")
	if _, err := svc.DeleteStore(context.Background(), diner, "f1", "s1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateStoreMissingFranchise(t *testing.T) {
	svc, mock := newTestService(t)
	mock.ExpectQuery("SELECT id, name FROM franchises WHERE id").WithArgs("f9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	if _, err := svc.CreateStore(context.Background(), admin, "f9", CreateStoreRequest{Name: "x"}); !errors.Is(err, ErrFranchiseNotFound) {
		t.Fatalf("expected ErrFranchiseNotFound, got %v", err)
	}
}
