package domain

import "github.com/shopspring/decimal"

// MinijobMaxEarnings is the monthly earnings ceiling reported with the minijob balance
const MinijobMaxEarnings = "556€"

// Dashboard summarizes everything a user owns
type Dashboard struct {
	Balance       decimal.Decimal
	NumCategories int64
	NumMovements  int64
}

// MonthlyBalance is the balance of one category type within a calendar month
type MonthlyBalance struct {
	CategoryType CategoryType
	Balance      decimal.Decimal
	Month        string
	Year         int
}
