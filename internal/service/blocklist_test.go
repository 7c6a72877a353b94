package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/result"
	"github.com/openpaygo/antifraud/internal/testutil/memstore"
)

type recordingMarker struct {
	mu     sync.Mutex
	marked []string
}

func (m *recordingMarker) MarkBlocked(ctx context.Context, cardNumber string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked = append(m.marked, cardNumber)
}

func TestBlockCard(t *testing.T) {
	store := memstore.NewBlockedCardStore()
	marker := &recordingMarker{}
	svc := NewBlocklistService(store, memstore.NewUnitOfWork()).WithCache(marker)

	res := svc.BlockCard(context.Background(), BlockCardRequest{
		CardNumber: "4111111111111111",
		Reason:     "confirmed fraud",
	})
	require.True(t, res.IsSuccess(), res.Error())

	blocked, err := store.IsBlocked(context.Background(), "4111111111111111")
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, []string{"4111111111111111"}, marker.marked)
}

func TestBlockCardConflictOnSecondBlock(t *testing.T) {
	store := memstore.NewBlockedCardStore()
	marker := &recordingMarker{}
	svc := NewBlocklistService(store, memstore.NewUnitOfWork()).WithCache(marker)

	first := svc.BlockCard(context.Background(), BlockCardRequest{CardNumber: "4111111111111111"})
	require.True(t, first.IsSuccess())

	second := svc.BlockCard(context.Background(), BlockCardRequest{CardNumber: "4111111111111111"})
	require.False(t, second.IsSuccess())
	assert.Equal(t, result.KindConflict, second.Kind())
	assert.Equal(t, "this card is already blocked", second.Error())
	assert.Len(t, marker.marked, 1)
}

func TestBlockCardValidation(t *testing.T) {
	store := memstore.NewBlockedCardStore()
	svc := NewBlocklistService(store, memstore.NewUnitOfWork())

	cases := []struct {
		name string
		req  BlockCardRequest
		msg  string
	}{
		{name: "missing_card", req: BlockCardRequest{}, msg: "card number is required"},
		{name: "bad_checksum", req: BlockCardRequest{CardNumber: "4111111111111112"}, msg: "card number is not valid"},
		{name: "long_reason", req: BlockCardRequest{CardNumber: "4111111111111111", Reason: strings.Repeat("x", 256)}, msg: "reason must not exceed 255 characters"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			res := svc.BlockCard(context.Background(), tc.req)
			require.False(t, res.IsSuccess())
			assert.Equal(t, result.KindValidation, res.Kind())
			assert.Contains(t, res.Error(), tc.msg)
		})
	}
}

func TestBlockCardConflictFromUniqueConstraint(t *testing.T) {
	// The insert itself can report the conflict when a concurrent block wins
	// the race between the existence check and the insert.
	store := memstore.NewBlockedCardStore()
	store.InsertErr = domain.ErrCardAlreadyBlocked
	svc := NewBlocklistService(store, memstore.NewUnitOfWork())

	res := svc.BlockCard(context.Background(), BlockCardRequest{CardNumber: "4111111111111111"})
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.KindConflict, res.Kind())
}

func TestBlockCardInternalError(t *testing.T) {
	store := memstore.NewBlockedCardStore()
	store.CheckErr = errors.New("connection refused")
	svc := NewBlocklistService(store, memstore.NewUnitOfWork())

	res := svc.BlockCard(context.Background(), BlockCardRequest{CardNumber: "4111111111111111"})
	require.False(t, res.IsSuccess())
	assert.Equal(t, result.KindInternal, res.Kind())
}
