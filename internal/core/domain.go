package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"

	// CreditCategory is the fixed category applied to every income
	// transaction, regardless of what the client sends.
	CreditCategory = "Credit"
)

const (
	Cash         PaymentMethod = "Cash"
	CreditCard   PaymentMethod = "Credit Card"
	DebitCard    PaymentMethod = "Debit Card"
	BankTransfer PaymentMethod = "Bank Transfer"
	UPI          PaymentMethod = "UPI"
)

type (
	TransactionType string
	PaymentMethod   string

	Date struct {
		time.Time
	}

	// Transaction is a single income or expense event belonging to one owner.
	Transaction struct {
		ID            int64
		Owner         string
		Date          Date
		Amount        Money
		Type          TransactionType
		Category      string
		PaymentMethod PaymentMethod
		PaidBy        string
		Description   string
		Notes         string
		CreatedAt     time.Time
	}

	// Budget is a per-category monthly spending ceiling for one calendar year.
	// At most one budget exists per (owner, category, year).
	Budget struct {
		ID           int64
		Owner        string
		Category     string
		Year         int
		MonthlyLimit Money
	}

	// Payer is a named household member usable in the paid_by field.
	Payer struct {
		ID    int64
		Owner string
		Name  string
	}

	// Reminder is a recurring-payment template. The owner confirms it once
	// per month, which creates an expense transaction and stamps
	// LastExecuted with the current month.
	Reminder struct {
		ID            int64
		Owner         string
		Name          string
		Amount        Money
		Category      string
		PaidBy        string
		PaymentMethod PaymentMethod
		StartMonth    Month
		EndMonth      Month
		Active        bool
		LastExecuted  Month // empty until first execution
	}
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidType     = errors.New("transaction type must be expense or income")
	ErrInvalidPayment  = errors.New("unknown payment method")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyPaidBy     = errors.New("empty paid_by")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidWindow   = errors.New("end month before start month")
	ErrDefaultCategory = errors.New("default categories cannot be removed")
)

// DefaultCategories is the fixed expense category set that is always
// available to every owner, independent of user-defined categories.
var DefaultCategories = []string{
	"Food", "Fuel", "Travel", "Rent", "Shopping",
	"Entertainment", "Bills", "Investment", "Health", "Other",
}

// IsDefaultCategory reports whether name is part of the fixed set.
func IsDefaultCategory(name string) bool {
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func (p PaymentMethod) Valid() bool {
	switch p {
	case Cash, CreditCard, DebitCard, BankTransfer, UPI:
		return true
	}
	return false
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the "YYYY-MM-DD" wire form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Month returns the calendar month the date falls in.
func (d Date) Month() Month {
	return MonthOf(d.Time)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if strings.TrimSpace(t.PaidBy) == "" {
		return ErrEmptyPaidBy
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Year < 1970 || b.Year > 9999 {
		return errors.New("invalid year")
	}
	// A zero limit is rejected outright, so the alert evaluator never has to
	// divide by zero.
	return b.MonthlyLimit.Validate()
}

func (p Payer) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(r.PaidBy) == "" {
		return ErrEmptyPaidBy
	}
	if !r.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if r.StartMonth.Time().IsZero() || r.EndMonth.Time().IsZero() {
		return errors.New("invalid month range")
	}
	if r.EndMonth.Before(r.StartMonth) {
		return ErrInvalidWindow
	}
	return nil
}
