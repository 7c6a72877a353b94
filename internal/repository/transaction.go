package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/models"
)

// TransactionRepository persists and loads transaction aggregates and their
// flattened read projections.
type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

// Insert writes a freshly analyzed transaction. The status is final before
// this call; rows are never inserted as a side effect of analysis.
func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, amount, card_holder, card_number, ip_address, location, transaction_date, status, created_at, updated_at)
		VALUES ($1, $2::numeric, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.store.querier(ctx).Exec(ctx, query,
		tx.ID(),
		tx.Amount().String(),
		tx.CardHolder(),
		tx.CardNumber(),
		tx.IPAddress(),
		tx.Location(),
		tx.TransactionDate(),
		string(tx.Status()),
		tx.CreatedAt(),
		tx.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID loads the mutable aggregate, locking the row when called inside a
// unit of work.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT id, amount::text, card_holder, card_number, ip_address, location, transaction_date, status, created_at, updated_at
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`
	var (
		rowID           uuid.UUID
		amountText      string
		cardHolder      string
		cardNumber      string
		ipAddress       string
		location        string
		transactionDate time.Time
		status          string
		createdAt       time.Time
		updatedAt       *time.Time
	)
	err := r.store.querier(ctx).QueryRow(ctx, query, id).Scan(
		&rowID, &amountText, &cardHolder, &cardNumber, &ipAddress, &location,
		&transactionDate, &status, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return nil, fmt.Errorf("parse transaction amount: %w", err)
	}
	return domain.Rehydrate(rowID, amount, cardHolder, cardNumber, ipAddress, location,
		transactionDate, domain.TransactionStatus(status), createdAt, updatedAt), nil
}

// UpdateStatus persists the aggregate's current status and updated-at stamp.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, tx *domain.Transaction) error {
	query := `UPDATE transactions SET status = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.store.querier(ctx).Exec(ctx, query, string(tx.Status()), tx.UpdatedAt(), tx.ID())
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	return requireExactlyOne(tag, "update transaction status")
}

// CountByIPSince counts transactions recorded from an origin IP since the
// given instant. The velocity rule anchors the window to the moment of
// evaluation, so the filter runs on created_at rather than the
// client-asserted transaction date.
func (r *TransactionRepository) CountByIPSince(ctx context.Context, ipAddress string, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE ip_address = $1 AND created_at >= $2`
	var count int64
	if err := r.store.querier(ctx).QueryRow(ctx, query, ipAddress, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions by ip: %w", err)
	}
	return count, nil
}

// CountByStatus counts transactions currently in the given status.
func (r *TransactionRepository) CountByStatus(ctx context.Context, status domain.TransactionStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE status = $1`
	var count int64
	if err := r.store.querier(ctx).QueryRow(ctx, query, string(status)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions by status: %w", err)
	}
	return count, nil
}

// GetView reads the flattened projection for a single transaction.
func (r *TransactionRepository) GetView(ctx context.Context, id uuid.UUID) (*models.TransactionView, error) {
	query := `SELECT id, status, created_at, updated_at FROM transactions WHERE id = $1`
	var view models.TransactionView
	err := r.store.querier(ctx).QueryRow(ctx, query, id).Scan(
		&view.TransactionID, &view.Status, &view.CreatedAt, &view.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction view: %w", err)
	}
	return &view, nil
}

// ListViews reads the projection for every stored transaction, newest first.
func (r *TransactionRepository) ListViews(ctx context.Context) ([]models.TransactionView, error) {
	query := `SELECT id, status, created_at, updated_at FROM transactions ORDER BY created_at DESC`
	rows, err := r.store.querier(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transaction views: %w", err)
	}
	defer rows.Close()

	views := make([]models.TransactionView, 0)
	for rows.Next() {
		var view models.TransactionView
		if err := rows.Scan(&view.TransactionID, &view.Status, &view.CreatedAt, &view.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction view: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transaction views: %w", err)
	}
	return views, nil
}
