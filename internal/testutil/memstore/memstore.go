// Package memstore provides in-memory store fakes for service and handler
// tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/models"
	"github.com/openpaygo/antifraud/internal/notification"
)

// TransactionStore keeps transactions in a map. Error fields, when set, are
// returned by the corresponding method to exercise failure paths.
type TransactionStore struct {
	mu sync.Mutex

	txs   map[uuid.UUID]*domain.Transaction
	order []uuid.UUID

	InsertErr error
	GetErr    error
	UpdateErr error
	CountErr  error
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{txs: make(map[uuid.UUID]*domain.Transaction)}
}

func (s *TransactionStore) Insert(ctx context.Context, tx *domain.Transaction) error {
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID()] = tx
	s.order = append(s.order, tx.ID())
	return nil
}

func (s *TransactionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

func (s *TransactionStore) UpdateStatus(ctx context.Context, tx *domain.Transaction) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[tx.ID()]; !ok {
		return domain.ErrTransactionNotFound
	}
	s.txs[tx.ID()] = tx
	return nil
}

func (s *TransactionStore) CountByIPSince(ctx context.Context, ipAddress string, since time.Time) (int64, error) {
	if s.CountErr != nil {
		return 0, s.CountErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, tx := range s.txs {
		if tx.IPAddress() == ipAddress && !tx.CreatedAt().Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *TransactionStore) CountByStatus(ctx context.Context, status domain.TransactionStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, tx := range s.txs {
		if tx.Status() == status {
			count++
		}
	}
	return count, nil
}

func (s *TransactionStore) GetView(ctx context.Context, id uuid.UUID) (*models.TransactionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	view := viewOf(tx)
	return &view, nil
}

func (s *TransactionStore) ListViews(ctx context.Context) ([]models.TransactionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	views := make([]models.TransactionView, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		views = append(views, viewOf(s.txs[s.order[i]]))
	}
	return views, nil
}

// Get returns the stored aggregate without error injection, for assertions.
func (s *TransactionStore) Get(id uuid.UUID) *domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs[id]
}

func viewOf(tx *domain.Transaction) models.TransactionView {
	return models.TransactionView{
		TransactionID: tx.ID(),
		Status:        string(tx.Status()),
		CreatedAt:     tx.CreatedAt(),
		UpdatedAt:     tx.UpdatedAt(),
	}
}

// BlockedCardStore keeps blocked cards keyed by card number.
type BlockedCardStore struct {
	mu    sync.Mutex
	cards map[string]*domain.BlockedCard

	InsertErr error
	CheckErr  error
}

func NewBlockedCardStore() *BlockedCardStore {
	return &BlockedCardStore{cards: make(map[string]*domain.BlockedCard)}
}

func (s *BlockedCardStore) Insert(ctx context.Context, card *domain.BlockedCard) error {
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[card.CardNumber()]; ok {
		return domain.ErrCardAlreadyBlocked
	}
	s.cards[card.CardNumber()] = card
	return nil
}

func (s *BlockedCardStore) IsBlocked(ctx context.Context, cardNumber string) (bool, error) {
	if s.CheckErr != nil {
		return false, s.CheckErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cards[cardNumber]
	return ok, nil
}

// AuditStore records audit entries in order.
type AuditStore struct {
	mu      sync.Mutex
	Entries []AuditEntry
}

type AuditEntry struct {
	EntityType string
	EntityID   uuid.UUID
	Action     string
	PrevState  string
	NextState  string
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Insert(ctx context.Context, entityType string, entityID uuid.UUID, action, prevState, nextState string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		PrevState:  prevState,
		NextState:  nextState,
	})
	return nil
}

// UnitOfWork runs fn directly; there is no transactional boundary in memory.
type UnitOfWork struct{}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Notifier records every published event.
type Notifier struct {
	mu     sync.Mutex
	Events []notification.TransactionAnalyzed
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) TransactionAnalyzed(ctx context.Context, event notification.TransactionAnalyzed) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, event)
}
