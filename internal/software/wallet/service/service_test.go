package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"delivery-dispatch/internal/domain/wallet"
	"delivery-dispatch/internal/general/logger"
	"delivery-dispatch/internal/general/memstore"
	"delivery-dispatch/internal/ports"
)

func newService(t *testing.T) (ports.WalletService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return NewWalletService(logger.NewNop(), store, store.Wallets()), store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTopUpCreatesWalletLazily(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	w, err := svc.TopUp(ctx, "user-1", dec("2000.00"))
	if err != nil {
		t.Fatalf("top up: %v", err)
	}
	if !w.Balance.Equal(dec("2000.00")) {
		t.Fatalf("balance = %s", w.Balance)
	}

	// a second top-up reuses the same wallet
	w2, err := svc.TopUp(ctx, "user-1", dec("500.00"))
	if err != nil {
		t.Fatal(err)
	}
	if w2.ID != w.ID {
		t.Fatal("second top-up created a new wallet")
	}
	if !w2.Balance.Equal(dec("2500.00")) {
		t.Fatalf("balance = %s", w2.Balance)
	}

	txs, err := svc.History(ctx, "user-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("ledger rows = %d", len(txs))
	}
}

func TestGetBalanceOnFreshUser(t *testing.T) {
	svc, _ := newService(t)
	b, err := svc.GetBalance(context.Background(), "nobody-yet")
	if err != nil {
		t.Fatal(err)
	}
	if !b.IsZero() {
		t.Fatalf("balance = %s", b)
	}
}

func TestTransfer(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.TopUp(ctx, "sender", dec("1000.00")); err != nil {
		t.Fatal(err)
	}

	if err := svc.Transfer(ctx, "sender", "receiver", dec("300.00"), "gift"); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	sb, _ := svc.GetBalance(ctx, "sender")
	rb, _ := svc.GetBalance(ctx, "receiver")
	if sb.StringFixed(2) != "700.00" || rb.StringFixed(2) != "300.00" {
		t.Fatalf("balances = %s / %s", sb, rb)
	}

	senderTxs, _ := svc.History(ctx, "sender", 10)
	receiverTxs, _ := svc.History(ctx, "receiver", 10)
	if senderTxs[0].Type != wallet.TypeDebit || receiverTxs[0].Type != wallet.TypeCredit {
		t.Fatalf("tx types = %s / %s", senderTxs[0].Type, receiverTxs[0].Type)
	}
}

func TestTransferFailuresLeaveNoTrace(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.TopUp(ctx, "sender", dec("100.00")); err != nil {
		t.Fatal(err)
	}

	if err := svc.Transfer(ctx, "sender", "sender", dec("50.00"), ""); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("got %v, want ErrSelfTransfer", err)
	}

	err := svc.Transfer(ctx, "sender", "receiver", dec("500.00"), "")
	if !wallet.IsInsufficientFunds(err) {
		t.Fatalf("got %v, want InsufficientFundsError", err)
	}

	sb, _ := svc.GetBalance(ctx, "sender")
	if sb.StringFixed(2) != "100.00" {
		t.Fatalf("sender balance = %s", sb)
	}
	if txs, _ := svc.History(ctx, "receiver", 10); len(txs) != 0 {
		t.Fatalf("receiver ledger rows = %d", len(txs))
	}
}

func TestSettleSplitsGrossAndNet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.TopUp(ctx, "customer", dec("2000.00")); err != nil {
		t.Fatal(err)
	}

	err := svc.Settle(ctx, "customer", "driver", dec("1600.00"), dec("1440.00"), "Payment for order o-1")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	cb, _ := svc.GetBalance(ctx, "customer")
	db, _ := svc.GetBalance(ctx, "driver")
	if cb.StringFixed(2) != "400.00" {
		t.Fatalf("customer balance = %s", cb)
	}
	if db.StringFixed(2) != "1440.00" {
		t.Fatalf("driver balance = %s", db)
	}

	// exactly one ledger row on each side
	customerTxs, _ := svc.History(ctx, "customer", 10)
	driverTxs, _ := svc.History(ctx, "driver", 10)
	if customerTxs[0].Type != wallet.TypeDebit || customerTxs[0].Amount.StringFixed(2) != "1600.00" {
		t.Fatalf("customer tx = %+v", customerTxs[0])
	}
	if len(driverTxs) != 1 || driverTxs[0].Type != wallet.TypeCredit || driverTxs[0].Amount.StringFixed(2) != "1440.00" {
		t.Fatalf("driver txs = %+v", driverTxs)
	}
}

func TestSettleValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.TopUp(ctx, "customer", dec("2000.00")); err != nil {
		t.Fatal(err)
	}

	if err := svc.Settle(ctx, "customer", "customer", dec("100"), dec("90"), ""); !errors.Is(err, ErrSelfTransfer) {
		t.Fatalf("got %v", err)
	}
	if err := svc.Settle(ctx, "customer", "driver", dec("100"), dec("110"), ""); !errors.Is(err, ErrNetExceedsGross) {
		t.Fatalf("got %v", err)
	}
	var iae *wallet.InvalidAmountError
	if err := svc.Settle(ctx, "customer", "driver", dec("0"), dec("0"), ""); !errors.As(err, &iae) {
		t.Fatalf("got %v", err)
	}

	// cancelled settlements leave both ledgers untouched
	if txs, _ := svc.History(ctx, "driver", 10); len(txs) != 0 {
		t.Fatalf("driver ledger rows = %d", len(txs))
	}
}
