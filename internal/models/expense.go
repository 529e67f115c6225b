package models

import (
	"math"
	"time"
)

// ExpenseCategory groups event costs
type ExpenseCategory string

const (
	ExpenseCategoryFlowers   ExpenseCategory = "flowers"
	ExpenseCategorySupplies  ExpenseCategory = "supplies"
	ExpenseCategoryTransport ExpenseCategory = "transport"
	ExpenseCategoryStaff     ExpenseCategory = "staff"
	ExpenseCategoryOther     ExpenseCategory = "other"
)

// IsValid reports whether c is a known category
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryFlowers, ExpenseCategorySupplies, ExpenseCategoryTransport,
		ExpenseCategoryStaff, ExpenseCategoryOther:
		return true
	}
	return false
}

// Expense is one cost line booked against an event
type Expense struct {
	ID        string          `json:"id" db:"id"`
	EventID   string          `json:"eventId" db:"event_id"`
	Label     string          `json:"label" db:"label"`
	Category  ExpenseCategory `json:"category" db:"category"`
	Amount    float64         `json:"amount" db:"amount"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// Margin summarises revenue against costs for a single event
type Margin struct {
	Revenue    float64                     `json:"revenue"`
	Expenses   float64                     `json:"expenses"`
	Profit     float64                     `json:"profit"`
	Percent    float64                     `json:"percent"`
	ByCategory map[ExpenseCategory]float64 `json:"byCategory"`
}

// ComputeMargin totals expenses against the event budget. Negative amounts
// count as zero. Percent is rounded to two decimals and is 0 without revenue.
func ComputeMargin(budget float64, expenses []Expense) Margin {
	m := Margin{
		Revenue:    math.Max(budget, 0),
		ByCategory: make(map[ExpenseCategory]float64),
	}
	for _, e := range expenses {
		amount := math.Max(e.Amount, 0)
		category := e.Category
		if !category.IsValid() {
			category = ExpenseCategoryOther
		}
		m.Expenses += amount
		m.ByCategory[category] += amount
	}
	m.Profit = m.Revenue - m.Expenses
	if m.Revenue > 0 {
		m.Percent = math.Round(m.Profit/m.Revenue*10000) / 100
	}
	return m
}
