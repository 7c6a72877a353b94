// Package notification publishes transaction lifecycle events to downstream
// consumers. Delivery is best-effort: a failed publish is logged and never
// surfaced to the command that produced it.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionAnalyzed is the event emitted once a transaction has been
// analyzed and committed. It carries no card data.
type TransactionAnalyzed struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
}

// Notifier publishes lifecycle events.
type Notifier interface {
	TransactionAnalyzed(ctx context.Context, event TransactionAnalyzed)
}

// LogNotifier writes events to the structured log. It is the default when no
// broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) TransactionAnalyzed(ctx context.Context, event TransactionAnalyzed) {
	n.logger.Info("transaction analyzed",
		zap.String("transaction_id", event.TransactionID.String()),
		zap.String("status", event.Status),
		zap.String("amount", event.Amount),
		zap.String("location", event.Location),
	)
}
