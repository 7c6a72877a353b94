package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionView is the flattened read projection surfaced by queries.
// Status carries the text name of the lifecycle state.
type TransactionView struct {
	TransactionID uuid.UUID  `json:"transaction_id"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}
