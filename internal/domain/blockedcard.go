package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlockedCard is a permanently denylisted card number. The card number is
// the unique business key; entries are never mutated or deleted.
type BlockedCard struct {
	id         uuid.UUID
	cardNumber string
	reason     string
	createdAt  time.Time
}

// NewBlockedCard registers a card number on the blocklist. The reason is
// optional free text.
func NewBlockedCard(cardNumber, reason string) *BlockedCard {
	return &BlockedCard{
		id:         uuid.New(),
		cardNumber: cardNumber,
		reason:     reason,
		createdAt:  time.Now().UTC(),
	}
}

// RehydrateBlockedCard reconstructs a persisted blocklist entry.
func RehydrateBlockedCard(id uuid.UUID, cardNumber, reason string, createdAt time.Time) *BlockedCard {
	return &BlockedCard{
		id:         id,
		cardNumber: cardNumber,
		reason:     reason,
		createdAt:  createdAt,
	}
}

func (c *BlockedCard) ID() uuid.UUID        { return c.id }
func (c *BlockedCard) CardNumber() string   { return c.cardNumber }
func (c *BlockedCard) Reason() string       { return c.reason }
func (c *BlockedCard) CreatedAt() time.Time { return c.createdAt }
