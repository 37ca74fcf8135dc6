package memstore

import (
	"context"
	"errors"
	"testing"

	"delivery-dispatch/internal/domain/fault"
	"delivery-dispatch/internal/domain/user"
)

func TestRepositoriesRequireTransaction(t *testing.T) {
	store := New()
	u, err := user.NewUser("Aigerim", "aigerim@example.com", "", user.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Users().Create(context.Background(), u); err == nil {
		t.Fatal("expected error outside a transaction")
	}
}

func TestRollbackRestoresState(t *testing.T) {
	store := New()
	ctx := context.Background()
	boom := errors.New("boom")

	u, err := user.NewUser("Aigerim", "aigerim@example.com", "", user.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}

	err = store.WithinTx(ctx, func(ctx context.Context) error {
		if err := store.Users().Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}

	err = store.WithinTx(ctx, func(ctx context.Context) error {
		_, err := store.Users().GetByID(ctx, u.ID)
		return err
	})
	if !fault.IsNotFound(err) {
		t.Fatalf("user survived rollback: %v", err)
	}
}

func TestNestedTransactionsJoinAndRollBackTogether(t *testing.T) {
	store := New()
	ctx := context.Background()
	boom := errors.New("boom")

	outer, _ := user.NewUser("Outer", "outer@example.com", "", user.RoleCustomer)
	inner, _ := user.NewUser("Inner", "inner@example.com", "", user.RoleCustomer)

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		if err := store.Users().Create(ctx, outer); err != nil {
			return err
		}
		// joins the outer transaction; no separate commit
		if err := store.WithinTx(ctx, func(ctx context.Context) error {
			return store.Users().Create(ctx, inner)
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}

	for _, u := range []*user.User{outer, inner} {
		err := store.WithinTx(ctx, func(ctx context.Context) error {
			_, err := store.Users().GetByID(ctx, u.ID)
			return err
		})
		if !fault.IsNotFound(err) {
			t.Fatalf("user %s survived rollback: %v", u.Name, err)
		}
	}
}
