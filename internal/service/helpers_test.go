package service

import (
	"time"

	"github.com/marginalwallet/wallet-api/internal/testutil"
	"github.com/shopspring/decimal"
)

const (
	ownerID    = int32(1)
	strangerID = int32(2)
)

func newTestGuard(repos *testutil.MockRepositories) *OwnershipGuard {
	return NewOwnershipGuard(repos.Categories, repos.Movements, repos.PlannedExpenses, repos.ActivityLogs)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
