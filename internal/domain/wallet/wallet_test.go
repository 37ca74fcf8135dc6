package wallet

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreditAndDebit(t *testing.T) {
	w, err := NewWallet("user-1")
	if err != nil {
		t.Fatal(err)
	}

	tx, err := w.Credit(dec("2000.00"), "top-up")
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if tx.Type != TypeCredit || !tx.Amount.Equal(dec("2000.00")) {
		t.Fatalf("tx = %+v", tx)
	}
	if !w.Balance.Equal(dec("2000.00")) {
		t.Fatalf("balance = %s", w.Balance)
	}

	tx, err = w.Debit(dec("1600.00"), "payment")
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if tx.Type != TypeDebit {
		t.Fatalf("tx type = %s", tx.Type)
	}
	if !w.Balance.Equal(dec("400.00")) {
		t.Fatalf("balance = %s, want 400.00", w.Balance)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	w, _ := NewWallet("user-1")
	if _, err := w.Credit(dec("100.00"), ""); err != nil {
		t.Fatal(err)
	}

	_, err := w.Debit(dec("1600.00"), "payment")
	if !IsInsufficientFunds(err) {
		t.Fatalf("got %v, want InsufficientFundsError", err)
	}
	var ife *InsufficientFundsError
	errors.As(err, &ife)
	if !ife.Balance.Equal(dec("100.00")) || !ife.Amount.Equal(dec("1600.00")) {
		t.Fatalf("error = %+v", ife)
	}
	// no partial effect
	if !w.Balance.Equal(dec("100.00")) {
		t.Fatalf("balance changed to %s", w.Balance)
	}
}

func TestNonPositiveAmountsRejected(t *testing.T) {
	w, _ := NewWallet("user-1")
	for _, amount := range []string{"0", "-5"} {
		var iae *InvalidAmountError
		if _, err := w.Credit(dec(amount), ""); !errors.As(err, &iae) {
			t.Errorf("credit %s: got %v", amount, err)
		}
		if _, err := w.Debit(dec(amount), ""); !errors.As(err, &iae) {
			t.Errorf("debit %s: got %v", amount, err)
		}
	}
}

func TestLedgerReconciles(t *testing.T) {
	w, _ := NewWallet("user-1")
	var ledger []*Transaction

	steps := []struct {
		credit bool
		amount string
	}{
		{true, "2000.00"},
		{false, "1600.00"},
		{true, "1440.00"},
		{false, "300.50"},
	}
	for _, step := range steps {
		var (
			tx  *Transaction
			err error
		)
		if step.credit {
			tx, err = w.Credit(dec(step.amount), "")
		} else {
			tx, err = w.Debit(dec(step.amount), "")
		}
		if err != nil {
			t.Fatal(err)
		}
		ledger = append(ledger, tx)
	}

	sum := decimal.Zero
	for _, tx := range ledger {
		sum = sum.Add(tx.Signed())
	}
	if !sum.Equal(w.Balance) {
		t.Fatalf("ledger sum %s != balance %s", sum, w.Balance)
	}
}

func TestParseTransactionType(t *testing.T) {
	if tt, err := ParseTransactionType("debit"); err != nil || tt != TypeDebit {
		t.Fatalf("got %q, %v", tt, err)
	}
	if _, err := ParseTransactionType("REFUND"); !errors.Is(err, ErrInvalidTransactionType) {
		t.Fatalf("got %v", err)
	}
}
