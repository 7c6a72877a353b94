package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/notification"
	"github.com/openpaygo/antifraud/internal/result"
)

const entityTransaction = "transaction"

// TransactionService implements the create and update commands for
// transactions.
type TransactionService struct {
	store    TransactionStore
	audit    AuditStore
	risk     *RiskAnalyzer
	uow      UnitOfWork
	notifier notification.Notifier
}

func NewTransactionService(store TransactionStore, audit AuditStore, risk *RiskAnalyzer, uow UnitOfWork, notifier notification.Notifier) *TransactionService {
	return &TransactionService{
		store:    store,
		audit:    audit,
		risk:     risk,
		uow:      uow,
		notifier: notifier,
	}
}

// Create validates the request, builds a Pending transaction, runs it
// through the risk analyzer and persists it. Any analysis or persistence
// failure is converted into a fallback-initiated Result failure; it never
// propagates as a fault.
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) result.Result[uuid.UUID] {
	if msgs := req.Validate(); len(msgs) > 0 {
		return result.Failure[uuid.UUID](result.KindValidation, strings.Join(msgs, "; "))
	}

	tx, err := domain.NewTransaction(req.Amount, req.CardHolder, req.CardNumber, req.IPAddress, req.Location, req.TransactionDate)
	if err != nil {
		return result.Failure[uuid.UUID](result.KindValidation, err.Error())
	}

	err = s.uow.Within(ctx, func(ctx context.Context) error {
		if err := s.risk.Analyze(ctx, tx); err != nil {
			return err
		}
		if err := s.store.Insert(ctx, tx); err != nil {
			return err
		}
		return s.audit.Insert(ctx, entityTransaction, tx.ID(), "created", "", string(tx.Status()))
	})
	if err != nil {
		zap.L().Error("transaction processing failed, initiating fallback",
			zap.String("transaction_id", tx.ID().String()),
			zap.String("card_number", domain.MaskCard(tx.CardNumber())),
			zap.Error(err),
		)
		return result.Failuref[uuid.UUID](result.KindInternal,
			"an error occurred while processing the transaction; fallback was initiated: %v", err)
	}

	zap.L().Info("transaction created",
		zap.String("transaction_id", tx.ID().String()),
		zap.String("status", string(tx.Status())),
	)
	s.notifier.TransactionAnalyzed(ctx, notification.TransactionAnalyzed{
		TransactionID: tx.ID(),
		Status:        string(tx.Status()),
		Amount:        tx.Amount().String(),
		Location:      tx.Location(),
		CreatedAt:     tx.CreatedAt(),
	})

	return result.Success(tx.ID())
}

// UpdateStatus applies an explicit status transition to a stored
// transaction. The target must be Approved, Rejected or Review; Pending and
// unknown targets are never permitted.
func (s *TransactionService) UpdateStatus(ctx context.Context, id uuid.UUID, target string) result.Result[uuid.UUID] {
	status, ok := domain.ParseStatus(target)
	if !ok || status == domain.StatusPending {
		return result.Failuref[uuid.UUID](result.KindInvalidTransition,
			"updating to status %q is not permitted", target)
	}

	err := s.uow.Within(ctx, func(ctx context.Context) error {
		tx, err := s.store.GetByID(ctx, id)
		if err != nil {
			return err
		}

		prev := tx.Status()
		switch status {
		case domain.StatusApproved:
			err = tx.Approve()
		case domain.StatusRejected:
			err = tx.Reject()
		case domain.StatusReview:
			err = tx.SendToReview()
		}
		if err != nil {
			return err
		}

		if err := s.store.UpdateStatus(ctx, tx); err != nil {
			return err
		}
		return s.audit.Insert(ctx, entityTransaction, tx.ID(), "status_updated", string(prev), string(tx.Status()))
	})
	if err != nil {
		var invalid *domain.InvalidTransitionError
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return result.Failure[uuid.UUID](result.KindNotFound, "transaction not found")
		case errors.As(err, &invalid):
			return result.Failure[uuid.UUID](result.KindInvalidTransition, invalid.Error())
		default:
			return result.Failure[uuid.UUID](result.KindInternal, err.Error())
		}
	}

	zap.L().Info("transaction status updated",
		zap.String("transaction_id", id.String()),
		zap.String("target", string(status)),
	)
	return result.Success(id)
}
