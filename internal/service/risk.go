package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpaygo/antifraud/internal/config"
	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/observability"
)

// TransactionHistory exposes the velocity lookup the risk engine needs.
type TransactionHistory interface {
	CountByIPSince(ctx context.Context, ipAddress string, since time.Time) (int64, error)
}

// RiskAnalyzer decides the status of a freshly constructed Pending
// transaction and applies exactly one state transition.
type RiskAnalyzer struct {
	blocklist BlocklistChecker
	history   TransactionHistory

	amountCeiling     decimal.Decimal
	velocityThreshold int64
	velocityWindow    time.Duration
	highRisk          map[string]struct{}

	now func() time.Time
}

// NewRiskAnalyzer builds an analyzer from the immutable rule configuration.
func NewRiskAnalyzer(blocklist BlocklistChecker, history TransactionHistory, rules config.RiskRules) *RiskAnalyzer {
	highRisk := make(map[string]struct{}, len(rules.HighRiskLocations))
	for _, loc := range rules.HighRiskLocations {
		highRisk[loc] = struct{}{}
	}
	return &RiskAnalyzer{
		blocklist:         blocklist,
		history:           history,
		amountCeiling:     rules.AmountCeiling,
		velocityThreshold: rules.VelocityThreshold,
		velocityWindow:    rules.VelocityWindow,
		highRisk:          highRisk,
		now:               time.Now,
	}
}

// WithClock overrides the evaluation clock.
func (a *RiskAnalyzer) WithClock(now func() time.Time) *RiskAnalyzer {
	if now != nil {
		a.now = now
	}
	return a
}

// Analyze inspects the transaction and transitions it to its decided status.
// A blocklisted card is rejected immediately; otherwise the high-amount,
// velocity and high-risk-location predicates are all evaluated, and any hit
// routes the transaction to review. No predicate hit approves it.
func (a *RiskAnalyzer) Analyze(ctx context.Context, tx *domain.Transaction) error {
	blocked, err := a.blocklist.IsBlocked(ctx, tx.CardNumber())
	if err != nil {
		return fmt.Errorf("blocklist check: %w", err)
	}
	if blocked {
		observability.IncrementBlocklistHit()
		if err := tx.Reject(); err != nil {
			return err
		}
		observability.IncrementRiskDecision(string(tx.Status()))
		return nil
	}

	needsReview := false

	if tx.Amount().GreaterThan(a.amountCeiling) {
		needsReview = true
	}

	since := a.now().UTC().Add(-a.velocityWindow)
	count, err := a.history.CountByIPSince(ctx, tx.IPAddress(), since)
	if err != nil {
		return fmt.Errorf("velocity check: %w", err)
	}
	if count >= a.velocityThreshold {
		needsReview = true
	}

	if _, ok := a.highRisk[tx.Location()]; ok {
		needsReview = true
	}

	if needsReview {
		err = tx.SendToReview()
	} else {
		err = tx.Approve()
	}
	if err != nil {
		return err
	}
	observability.IncrementRiskDecision(string(tx.Status()))
	return nil
}
