package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openpaygo/antifraud/internal/domain"
)

const uniqueViolation = "23505"

// BlockedCardRepository persists blocklist entries. The UNIQUE constraint on
// card_number is the storage backstop for the non-atomic check-then-insert
// performed by the block command.
type BlockedCardRepository struct {
	store *Store
}

func NewBlockedCardRepository(store *Store) *BlockedCardRepository {
	return &BlockedCardRepository{store: store}
}

// Insert writes a new blocklist entry. A duplicate card number surfaces as
// domain.ErrCardAlreadyBlocked.
func (r *BlockedCardRepository) Insert(ctx context.Context, card *domain.BlockedCard) error {
	query := `
		INSERT INTO blocked_cards (id, card_number, reason, created_at)
		VALUES ($1, $2, $3, $4)
	`
	var reason *string
	if card.Reason() != "" {
		v := card.Reason()
		reason = &v
	}
	_, err := r.store.querier(ctx).Exec(ctx, query, card.ID(), card.CardNumber(), reason, card.CreatedAt())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrCardAlreadyBlocked
		}
		return fmt.Errorf("insert blocked card: %w", err)
	}
	return nil
}

// IsBlocked reports whether a card number is on the blocklist.
func (r *BlockedCardRepository) IsBlocked(ctx context.Context, cardNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blocked_cards WHERE card_number = $1)`
	var blocked bool
	if err := r.store.querier(ctx).QueryRow(ctx, query, cardNumber).Scan(&blocked); err != nil {
		return false, fmt.Errorf("blocklist lookup: %w", err)
	}
	return blocked, nil
}
