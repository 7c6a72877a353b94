package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/openpaygo/antifraud/internal/config"
	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/testutil/memstore"
)

func testRules() config.RiskRules {
	return config.RiskRules{
		AmountCeiling:     decimal.RequireFromString("5000.00"),
		VelocityThreshold: 3,
		VelocityWindow:    time.Hour,
		HighRiskLocations: []string{"AF", "IR", "KP"},
	}
}

func validCreateRequest() CreateTransactionRequest {
	return CreateTransactionRequest{
		Amount:          decimal.RequireFromString("4000.00"),
		CardHolder:      "Jane Roe",
		CardNumber:      "4111111111111111",
		IPAddress:       "203.0.113.7",
		Location:        "BR",
		TransactionDate: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

// seedTransaction inserts a prior transaction from the given IP with the
// given creation time directly into the store.
func seedTransaction(t *testing.T, store *memstore.TransactionStore, ipAddress string, createdAt time.Time) *domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(decimal.NewFromInt(50), "Seed Holder", "4111111111111111", ipAddress, "BR", createdAt)
	require.NoError(t, err)
	seeded := domain.Rehydrate(
		tx.ID(), tx.Amount(), tx.CardHolder(), tx.CardNumber(),
		ipAddress, tx.Location(), tx.TransactionDate(),
		domain.StatusApproved, createdAt, nil,
	)
	require.NoError(t, store.Insert(context.Background(), seeded))
	return seeded
}
