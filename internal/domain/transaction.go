package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a transaction. It is persisted
// and serialized as its text name, never as an ordinal.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "Pending"
	StatusReview   TransactionStatus = "Review"
	StatusApproved TransactionStatus = "Approved"
	StatusRejected TransactionStatus = "Rejected"
)

// ParseStatus resolves a status from its text name, case-insensitively.
func ParseStatus(s string) (TransactionStatus, bool) {
	s = strings.TrimSpace(s)
	for _, status := range []TransactionStatus{StatusPending, StatusReview, StatusApproved, StatusRejected} {
		if strings.EqualFold(string(status), s) {
			return status, true
		}
	}
	return "", false
}

// transactionTransitions is the full set of legal status transitions.
// Approve and Reject can reverse each other, but Review is reachable only
// from Pending and Pending is never re-entered.
var transactionTransitions = map[TransactionStatus]map[TransactionStatus]struct{}{
	StatusPending: {
		StatusReview:   {},
		StatusApproved: {},
		StatusRejected: {},
	},
	StatusReview: {
		StatusApproved: {},
		StatusRejected: {},
	},
	StatusApproved: {
		StatusRejected: {},
	},
	StatusRejected: {
		StatusApproved: {},
	},
}

func canTransition(current, next TransactionStatus) bool {
	nextStates, ok := transactionTransitions[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}

// Transaction is the aggregate root for a payment attempt under fraud
// evaluation. Fields are unexported so the status can only change through
// the transition methods.
type Transaction struct {
	id              uuid.UUID
	amount          decimal.Decimal
	cardHolder      string
	cardNumber      string
	ipAddress       string
	location        string
	transactionDate time.Time
	status          TransactionStatus
	createdAt       time.Time
	updatedAt       *time.Time
}

// NewTransaction builds a Pending transaction. The amount must be strictly
// positive.
func NewTransaction(amount decimal.Decimal, cardHolder, cardNumber, ipAddress, location string, transactionDate time.Time) (*Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, ErrNonPositiveAmount
	}
	return &Transaction{
		id:              uuid.New(),
		amount:          amount,
		cardHolder:      cardHolder,
		cardNumber:      cardNumber,
		ipAddress:       ipAddress,
		location:        location,
		transactionDate: transactionDate,
		status:          StatusPending,
		createdAt:       time.Now().UTC(),
	}, nil
}

// Rehydrate reconstructs a persisted transaction without re-running
// construction invariants. It is intended for repository loads only.
func Rehydrate(id uuid.UUID, amount decimal.Decimal, cardHolder, cardNumber, ipAddress, location string, transactionDate time.Time, status TransactionStatus, createdAt time.Time, updatedAt *time.Time) *Transaction {
	return &Transaction{
		id:              id,
		amount:          amount,
		cardHolder:      cardHolder,
		cardNumber:      cardNumber,
		ipAddress:       ipAddress,
		location:        location,
		transactionDate: transactionDate,
		status:          status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (t *Transaction) ID() uuid.UUID              { return t.id }
func (t *Transaction) Amount() decimal.Decimal    { return t.amount }
func (t *Transaction) CardHolder() string         { return t.cardHolder }
func (t *Transaction) CardNumber() string         { return t.cardNumber }
func (t *Transaction) IPAddress() string          { return t.ipAddress }
func (t *Transaction) Location() string           { return t.location }
func (t *Transaction) TransactionDate() time.Time { return t.transactionDate }
func (t *Transaction) Status() TransactionStatus  { return t.status }
func (t *Transaction) CreatedAt() time.Time       { return t.createdAt }
func (t *Transaction) UpdatedAt() *time.Time      { return t.updatedAt }

// Approve marks the transaction approved. Legal from Pending, Review and
// Rejected.
func (t *Transaction) Approve() error {
	return t.transition(StatusApproved)
}

// Reject marks the transaction rejected. Legal from Pending, Review and
// Approved.
func (t *Transaction) Reject() error {
	return t.transition(StatusRejected)
}

// SendToReview routes the transaction to manual review. Legal only from
// Pending.
func (t *Transaction) SendToReview() error {
	return t.transition(StatusReview)
}

func (t *Transaction) transition(next TransactionStatus) error {
	if !canTransition(t.status, next) {
		return &InvalidTransitionError{From: t.status, To: next}
	}
	t.status = next
	now := time.Now().UTC()
	t.updatedAt = &now
	return nil
}
