package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AuditRepository appends immutable audit trail entries.
type AuditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// Insert stores a single audit record.
func (r *AuditRepository) Insert(ctx context.Context, entityType string, entityID uuid.UUID, action, prevState, nextState string) error {
	query := `
		INSERT INTO audit_log (entity_type, entity_id, action, prev_state, next_state, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := r.store.querier(ctx).Exec(ctx, query, entityType, entityID, action, textParam(prevState), textParam(nextState)); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func textParam(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
