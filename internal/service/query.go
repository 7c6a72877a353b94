package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/models"
	"github.com/openpaygo/antifraud/internal/result"
)

// TransactionQueryService serves read-only projections over stored
// transactions, bypassing the domain model.
type TransactionQueryService struct {
	store TransactionStore
}

func NewTransactionQueryService(store TransactionStore) *TransactionQueryService {
	return &TransactionQueryService{store: store}
}

// Get returns the flattened view for one transaction.
func (s *TransactionQueryService) Get(ctx context.Context, id uuid.UUID) result.Result[models.TransactionView] {
	view, err := s.store.GetView(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return result.Failure[models.TransactionView](result.KindNotFound, "transaction not found")
		}
		return result.Failure[models.TransactionView](result.KindInternal, err.Error())
	}
	return result.Success(*view)
}

// List returns the view for every stored transaction, success-wrapped even
// when the collection is empty.
func (s *TransactionQueryService) List(ctx context.Context) result.Result[[]models.TransactionView] {
	views, err := s.store.ListViews(ctx)
	if err != nil {
		return result.Failure[[]models.TransactionView](result.KindInternal, err.Error())
	}
	if views == nil {
		views = []models.TransactionView{}
	}
	return result.Success(views)
}
