package wallet

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the signed direction of a ledger entry.
type TransactionType string

const (
	TypeCredit TransactionType = "CREDIT"
	TypeDebit  TransactionType = "DEBIT"
)

var ErrInvalidTransactionType = errors.New("invalid transaction type")

// ParseTransactionType normalizes and validates a transaction type string.
func ParseTransactionType(in string) (TransactionType, error) {
	tt := TransactionType(strings.ToUpper(strings.TrimSpace(in)))
	if tt.Valid() {
		return tt, nil
	}
	return "", ErrInvalidTransactionType
}

// Valid reports whether the type is one of the allowed constants.
func (tt TransactionType) Valid() bool {
	return tt == TypeCredit || tt == TypeDebit
}

// String returns the string representation of the TransactionType.
func (tt TransactionType) String() string {
	return string(tt)
}

// Transaction is one append-only ledger entry. Rows are never updated or
// deleted; the sum of a wallet's credits minus debits equals its balance.
type Transaction struct {
	ID          string
	WalletID    string
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}

func newTransaction(walletID string, tt TransactionType, amount decimal.Decimal, description string) *Transaction {
	return &Transaction{
		ID:          uuid.NewString(),
		WalletID:    walletID,
		Type:        tt,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// Signed returns the amount with its ledger sign: credits positive,
// debits negative.
func (tx *Transaction) Signed() decimal.Decimal {
	if tx.Type == TypeDebit {
		return tx.Amount.Neg()
	}
	return tx.Amount
}
