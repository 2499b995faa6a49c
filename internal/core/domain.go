package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	TransactionType string

	Frequency string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Title       string
		Amount      Money
		Type        TransactionType
		Category    string
		Date        Date
		Description string
	}

	Category struct {
		ID        string
		Name      string
		Type      TransactionType
		Icon      string
		Color     string
		IsDefault bool
	}

	// Budget is a monthly spending limit for one expense category. Budgets
	// reference categories by name, like transactions do.
	Budget struct {
		Category string
		Limit    Money
	}

	RecurringTransaction struct {
		ID          string
		Title       string
		Amount      Money
		Type        TransactionType
		Category    string
		Frequency   Frequency
		NextDate    Date
		IsActive    bool
		IsDefault   bool
		Description string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCategory    = errors.New("empty category")
	ErrDuplicateName    = errors.New("duplicate name")
)

// IsValid reports whether the type is one of the known values.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// ParseTransactionType parses a lowercase type token.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.TrimSpace(s))
	if !t.IsValid() {
		return "", ErrInvalidType
	}
	return t, nil
}

func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// NewDate creates a calendar date pinned to midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Format renders the date as YYYY-MM-DD.
func (d Date) Format() string {
	return d.Time.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return t.Date.Validate()
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if len(strings.TrimSpace(r.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if !r.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	return r.NextDate.Validate()
}

// NextAfter returns the occurrence that follows d for the given frequency.
// Monthly and yearly steps clamp to the last day of shorter months, so a
// schedule anchored on the 31st fires on the 28th or 29th in February
// rather than spilling into March.
func (f Frequency) NextAfter(d Date) Date {
	switch f {
	case Daily:
		return Date{Time: d.AddDate(0, 0, 1)}
	case Weekly:
		return Date{Time: d.AddDate(0, 0, 7)}
	case Monthly:
		return addMonthsClamped(d, 1)
	case Yearly:
		return addMonthsClamped(d, 12)
	default:
		return d
	}
}

func addMonthsClamped(d Date, months int) Date {
	year, month := d.Year(), d.Month()+months
	for month > 12 {
		month -= 12
		year++
	}
	day := d.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
