package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ghazlapps/salon-backend/pkg/db/models"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	dsn := "file:customers_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCustomerLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Dana", Phone: "555-0100"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	email := "dana@example.com"
	updated, err := svc.Update(ctx, created.ID, Input{Name: "Dana", Phone: "555-0199", Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "555-0199" || updated.Email == nil {
		t.Fatalf("unexpected customer: %+v", updated)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCustomerValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{Phone: "555-0100"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{Name: "Dana"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing phone, got %v", err)
	}
}

func TestCustomerSearch(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	email := "dana@example.com"
	seed := []Input{
		{Name: "Dana Reyes", Phone: "555-0100", Email: &email},
		{Name: "Lena Park", Phone: "555-0200"},
	}
	for _, input := range seed {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	cases := []struct {
		query string
		want  int
	}{
		{"dana", 1},
		{"555-02", 1},
		{"example.com", 1},
		{"nobody", 0},
	}
	for _, tc := range cases {
		found, err := svc.Search(ctx, tc.query)
		if err != nil {
			t.Fatalf("search %q: %v", tc.query, err)
		}
		if len(found) != tc.want {
			t.Fatalf("search %q: expected %d hits, got %d", tc.query, tc.want, len(found))
		}
	}
}
