package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/result"
	"github.com/openpaygo/antifraud/internal/testutil/memstore"
)

type transactionFixture struct {
	store    *memstore.TransactionStore
	audit    *memstore.AuditStore
	notifier *memstore.Notifier
	svc      *TransactionService
}

func newTransactionFixture() *transactionFixture {
	store := memstore.NewTransactionStore()
	blocklist := memstore.NewBlockedCardStore()
	audit := memstore.NewAuditStore()
	notifier := memstore.NewNotifier()
	analyzer := NewRiskAnalyzer(blocklist, store, testRules())
	svc := NewTransactionService(store, audit, analyzer, memstore.NewUnitOfWork(), notifier)
	return &transactionFixture{store: store, audit: audit, notifier: notifier, svc: svc}
}

func TestCreateApprovesAndPersists(t *testing.T) {
	f := newTransactionFixture()

	res := f.svc.Create(context.Background(), validCreateRequest())
	require.True(t, res.IsSuccess(), res.Error())

	stored := f.store.Get(res.Value())
	require.NotNil(t, stored)
	assert.Equal(t, domain.StatusApproved, stored.Status())

	require.Len(t, f.audit.Entries, 1)
	entry := f.audit.Entries[0]
	assert.Equal(t, "transaction", entry.EntityType)
	assert.Equal(t, res.Value(), entry.EntityID)
	assert.Equal(t, "created", entry.Action)
	assert.Equal(t, "", entry.PrevState)
	assert.Equal(t, "Approved", entry.NextState)

	require.Len(t, f.notifier.Events, 1)
	event := f.notifier.Events[0]
	assert.Equal(t, res.Value(), event.TransactionID)
	assert.Equal(t, "Approved", event.Status)
	assert.Equal(t, "4000", event.Amount)
}

func TestCreateRoutesHighAmountToReview(t *testing.T) {
	f := newTransactionFixture()

	req := validCreateRequest()
	req.Amount = decimal.RequireFromString("6000.00")

	res := f.svc.Create(context.Background(), req)
	require.True(t, res.IsSuccess(), res.Error())
	assert.Equal(t, domain.StatusReview, f.store.Get(res.Value()).Status())
}

func TestCreateCollectsValidationMessages(t *testing.T) {
	f := newTransactionFixture()

	res := f.svc.Create(context.Background(), CreateTransactionRequest{
		Amount:     decimal.Zero,
		CardNumber: "not-a-card",
	})
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.KindValidation, res.Kind())
	assert.Contains(t, res.Error(), "amount must be greater than zero")
	assert.Contains(t, res.Error(), "card holder is required")
	assert.Contains(t, res.Error(), "card number is not valid")
	assert.Contains(t, res.Error(), "ip address is required")
	assert.Contains(t, res.Error(), "location is required")
	assert.Contains(t, res.Error(), "transaction date is required")
	assert.Empty(t, f.notifier.Events)
}

func TestCreateFallsBackOnPersistenceFailure(t *testing.T) {
	f := newTransactionFixture()
	f.store.InsertErr = errors.New("connection reset")

	res := f.svc.Create(context.Background(), validCreateRequest())
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.KindInternal, res.Kind())
	assert.Contains(t, res.Error(), "fallback was initiated")
	assert.Empty(t, f.notifier.Events)
	assert.Empty(t, f.audit.Entries)
}

func TestUpdateStatusApprovesReviewedTransaction(t *testing.T) {
	f := newTransactionFixture()

	req := validCreateRequest()
	req.Amount = decimal.RequireFromString("6000.00")
	created := f.svc.Create(context.Background(), req)
	require.True(t, created.IsSuccess())

	res := f.svc.UpdateStatus(context.Background(), created.Value(), "Approved")
	require.True(t, res.IsSuccess(), res.Error())
	assert.Equal(t, domain.StatusApproved, f.store.Get(created.Value()).Status())

	require.Len(t, f.audit.Entries, 2)
	entry := f.audit.Entries[1]
	assert.Equal(t, "status_updated", entry.Action)
	assert.Equal(t, "Review", entry.PrevState)
	assert.Equal(t, "Approved", entry.NextState)
}

func TestUpdateStatusRejectsUnknownAndPendingTargets(t *testing.T) {
	f := newTransactionFixture()

	for _, target := range []string{"Pending", "pending", "Settled", ""} {
		res := f.svc.UpdateStatus(context.Background(), uuid.New(), target)
		require.False(t, res.IsSuccess(), "target %q", target)
		assert.Equal(t, result.KindInvalidTransition, res.Kind())
		assert.Contains(t, res.Error(), "not permitted")
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	f := newTransactionFixture()

	res := f.svc.UpdateStatus(context.Background(), uuid.New(), "Approved")
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.KindNotFound, res.Kind())
	assert.Equal(t, "transaction not found", res.Error())
}

func TestUpdateStatusIllegalTransitionLeavesStatusUnchanged(t *testing.T) {
	f := newTransactionFixture()

	created := f.svc.Create(context.Background(), validCreateRequest())
	require.True(t, created.IsSuccess())
	require.Equal(t, domain.StatusApproved, f.store.Get(created.Value()).Status())

	res := f.svc.UpdateStatus(context.Background(), created.Value(), "Review")
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.KindInvalidTransition, res.Kind())
	assert.Contains(t, res.Error(), "invalid status transition from Approved to Review")
	assert.Equal(t, domain.StatusApproved, f.store.Get(created.Value()).Status())
	assert.Len(t, f.audit.Entries, 1)
}

func TestUpdateStatusRejectApproveRoundTrip(t *testing.T) {
	f := newTransactionFixture()

	created := f.svc.Create(context.Background(), validCreateRequest())
	require.True(t, created.IsSuccess())

	res := f.svc.UpdateStatus(context.Background(), created.Value(), "Rejected")
	require.True(t, res.IsSuccess(), res.Error())
	assert.Equal(t, domain.StatusRejected, f.store.Get(created.Value()).Status())

	res = f.svc.UpdateStatus(context.Background(), created.Value(), "Approved")
	require.True(t, res.IsSuccess(), res.Error())
	assert.Equal(t, domain.StatusApproved, f.store.Get(created.Value()).Status())
}

func TestCreateRejectsBlocklistedCardEndToEnd(t *testing.T) {
	store := memstore.NewTransactionStore()
	blocklist := memstore.NewBlockedCardStore()
	require.NoError(t, blocklist.Insert(context.Background(), domain.NewBlockedCard("4111111111111111", "")))
	audit := memstore.NewAuditStore()
	notifier := memstore.NewNotifier()
	analyzer := NewRiskAnalyzer(blocklist, store, testRules())
	svc := NewTransactionService(store, audit, analyzer, memstore.NewUnitOfWork(), notifier)

	res := svc.Create(context.Background(), validCreateRequest())
	require.True(t, res.IsSuccess(), res.Error())
	assert.Equal(t, domain.StatusRejected, store.Get(res.Value()).Status())

	require.Len(t, notifier.Events, 1)
	assert.Equal(t, "Rejected", notifier.Events[0].Status)
}

func TestCreateVelocityScenario(t *testing.T) {
	f := newTransactionFixture()

	req := validCreateRequest()
	req.IPAddress = "10.0.0.5"
	req.Amount = decimal.RequireFromString("100.00")

	// The first three submissions from the IP are approved; by the fourth,
	// three priors sit inside the window and the transaction goes to review.
	var last result.Result[uuid.UUID]
	for i := 0; i < 4; i++ {
		req.TransactionDate = time.Now().UTC()
		last = f.svc.Create(context.Background(), req)
		require.True(t, last.IsSuccess(), last.Error())
	}
	assert.Equal(t, domain.StatusReview, f.store.Get(last.Value()).Status())
}
