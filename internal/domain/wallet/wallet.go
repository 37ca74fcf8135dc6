package wallet

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is the domain entity corresponding to the `wallets` table.
// One per user, created lazily on first access. The balance never goes
// negative, and every balance change is paired with exactly one
// Transaction row, so the ledger always reconciles to the balance.
type Wallet struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    string
	Balance   decimal.Decimal
}

var ErrUserIDRequired = errors.New("user id is required")

// InvalidAmountError reports a non-positive monetary amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amount must be positive, got %s", e.Amount)
}

// InsufficientFundsError carries the current balance so the caller can
// report how much was actually available.
type InsufficientFundsError struct {
	Balance decimal.Decimal
	Amount  decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: have %s, need %s", e.Balance, e.Amount)
}

// IsInsufficientFunds reports whether err is (or wraps) an InsufficientFundsError.
func IsInsufficientFunds(err error) bool {
	var in *InsufficientFundsError
	return errors.As(err, &in)
}

// NewWallet creates a zero-balance wallet for a user.
func NewWallet(userID string) (*Wallet, error) {
	if userID = strings.TrimSpace(userID); userID == "" {
		return nil, ErrUserIDRequired
	}
	now := time.Now().UTC()
	return &Wallet{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		Balance:   decimal.Zero,
	}, nil
}

// Credit increases the balance and returns the matching ledger entry.
func (wallet *Wallet) Credit(amount decimal.Decimal, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, &InvalidAmountError{Amount: amount}
	}
	wallet.Balance = wallet.Balance.Add(amount)
	wallet.touch()
	return newTransaction(wallet.ID, TypeCredit, amount, description), nil
}

// Debit decreases the balance and returns the matching ledger entry.
// The balance must cover the amount; no partial effect occurs otherwise.
func (wallet *Wallet) Debit(amount decimal.Decimal, description string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, &InvalidAmountError{Amount: amount}
	}
	if wallet.Balance.LessThan(amount) {
		return nil, &InsufficientFundsError{Balance: wallet.Balance, Amount: amount}
	}
	wallet.Balance = wallet.Balance.Sub(amount)
	wallet.touch()
	return newTransaction(wallet.ID, TypeDebit, amount, description), nil
}

func (wallet *Wallet) touch() {
	wallet.UpdatedAt = time.Now().UTC()
}
