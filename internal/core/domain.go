package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind is the direction of a transaction.
	Kind string

	// Transaction is one financial event. Amount is always positive;
	// direction is carried by Kind only.
	Transaction struct {
		ID          int64
		UserID      string
		Amount      Money
		Kind        Kind
		Category    string
		Description string
		OccurredOn  Date
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrNotFound      = errors.New("transaction not found")
	ErrCancelled     = errors.New("operation cancelled")
	ErrEmptyUserID   = errors.New("empty user id")
	ErrEmptyCategory = errors.New("empty category")
)

// ParseKind validates a raw kind string. Only the two exact enum values
// are accepted.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Income, Expense:
		return Kind(s), nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.OccurredOn.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
