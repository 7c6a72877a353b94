package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openpaygo/antifraud/internal/domain"
	"github.com/openpaygo/antifraud/internal/observability"
	"github.com/openpaygo/antifraud/internal/result"
)

// BlocklistMarker keeps a cache in step with a freshly blocked card.
type BlocklistMarker interface {
	MarkBlocked(ctx context.Context, cardNumber string)
}

// BlocklistService implements the block-card command.
type BlocklistService struct {
	store BlockedCardStore
	uow   UnitOfWork
	cache BlocklistMarker
}

func NewBlocklistService(store BlockedCardStore, uow UnitOfWork) *BlocklistService {
	return &BlocklistService{store: store, uow: uow}
}

// WithCache registers a cache to mark through after a successful block.
func (s *BlocklistService) WithCache(cache BlocklistMarker) *BlocklistService {
	s.cache = cache
	return s
}

// BlockCard registers a card number on the blocklist. Blocking an already
// blocked card fails with a conflict. The check and the insert are not one
// atomic step; the unique constraint on card_number backstops concurrent
// blocks of the same number.
func (s *BlocklistService) BlockCard(ctx context.Context, req BlockCardRequest) result.Result[uuid.UUID] {
	if msgs := req.Validate(); len(msgs) > 0 {
		observability.IncrementCardBlock("validation_failed")
		return result.Failure[uuid.UUID](result.KindValidation, strings.Join(msgs, "; "))
	}

	var id uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context) error {
		blocked, err := s.store.IsBlocked(ctx, req.CardNumber)
		if err != nil {
			return err
		}
		if blocked {
			return domain.ErrCardAlreadyBlocked
		}

		card := domain.NewBlockedCard(req.CardNumber, req.Reason)
		if err := s.store.Insert(ctx, card); err != nil {
			return err
		}
		id = card.ID()
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCardAlreadyBlocked) {
			observability.IncrementCardBlock("conflict")
			return result.Failure[uuid.UUID](result.KindConflict, "this card is already blocked")
		}
		observability.IncrementCardBlock("error")
		return result.Failure[uuid.UUID](result.KindInternal, err.Error())
	}

	if s.cache != nil {
		s.cache.MarkBlocked(ctx, req.CardNumber)
	}
	observability.IncrementCardBlock("blocked")
	zap.L().Info("card blocked",
		zap.String("card_number", domain.MaskCard(req.CardNumber)),
		zap.String("blocked_card_id", id.String()),
	)
	return result.Success(id)
}
