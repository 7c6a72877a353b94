package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openpaygo/antifraud/internal/domain"
)

// CreateTransactionRequest carries the input for the create-transaction
// command. All fields are required.
type CreateTransactionRequest struct {
	Amount          decimal.Decimal
	CardHolder      string
	CardNumber      string
	IPAddress       string
	Location        string
	TransactionDate time.Time
}

// Validate returns one message per failed rule, empty when the request is
// well-formed. Validation runs before any domain logic.
func (r CreateTransactionRequest) Validate() []string {
	var msgs []string
	if r.Amount.Sign() <= 0 {
		msgs = append(msgs, "amount must be greater than zero")
	}
	if r.CardHolder == "" {
		msgs = append(msgs, "card holder is required")
	} else if len(r.CardHolder) > 200 {
		msgs = append(msgs, "card holder must not exceed 200 characters")
	}
	if r.CardNumber == "" {
		msgs = append(msgs, "card number is required")
	} else if len(r.CardNumber) > 20 || !domain.ValidCardNumber(r.CardNumber) {
		msgs = append(msgs, "card number is not valid")
	}
	if r.IPAddress == "" {
		msgs = append(msgs, "ip address is required")
	} else if len(r.IPAddress) > 50 {
		msgs = append(msgs, "ip address must not exceed 50 characters")
	}
	if r.Location == "" {
		msgs = append(msgs, "location is required")
	} else if len(r.Location) > 10 {
		msgs = append(msgs, "location must not exceed 10 characters")
	}
	if r.TransactionDate.IsZero() {
		msgs = append(msgs, "transaction date is required")
	}
	return msgs
}

// BlockCardRequest carries the input for the block-card command.
type BlockCardRequest struct {
	CardNumber string
	Reason     string
}

// Validate returns one message per failed rule.
func (r BlockCardRequest) Validate() []string {
	var msgs []string
	if r.CardNumber == "" {
		msgs = append(msgs, "card number is required")
	} else if len(r.CardNumber) > 20 || !domain.ValidCardNumber(r.CardNumber) {
		msgs = append(msgs, "card number is not valid")
	}
	if len(r.Reason) > 255 {
		msgs = append(msgs, "reason must not exceed 255 characters")
	}
	return msgs
}
