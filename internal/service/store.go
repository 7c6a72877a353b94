package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/models"
)

// TransactionStore is the persistence contract for transaction aggregates
// and their read projections.
type TransactionStore interface {
	Insert(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx *domain.Transaction) error
	CountByIPSince(ctx context.Context, ipAddress string, since time.Time) (int64, error)
	GetView(ctx context.Context, id uuid.UUID) (*models.TransactionView, error)
	ListViews(ctx context.Context) ([]models.TransactionView, error)
}

// BlockedCardStore is the persistence contract for the blocklist.
type BlockedCardStore interface {
	Insert(ctx context.Context, card *domain.BlockedCard) error
	IsBlocked(ctx context.Context, cardNumber string) (bool, error)
}

// AuditStore appends immutable audit records.
type AuditStore interface {
	Insert(ctx context.Context, entityType string, entityID uuid.UUID, action, prevState, nextState string) error
}

// UnitOfWork runs fn inside one transactional boundary; nothing inside fn is
// committed if fn returns an error or the context is canceled first.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context) error) error
}

// BlocklistChecker answers blocklist membership for the risk engine. It is
// satisfied by the blocked-card store and by the redis read-through cache.
type BlocklistChecker interface {
	IsBlocked(ctx context.Context, cardNumber string) (bool, error)
}
