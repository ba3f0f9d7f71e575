package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CashCard is a stored cash card record. OwnerID is set by the service from
// the authenticated caller and is never exposed in responses.
type CashCard struct {
	ID      int64           `json:"id"`
	Amount  decimal.Decimal `json:"amount"`
	OwnerID string          `json:"-"`
}

// MarshalJSON writes the amount as a bare JSON number, e.g.
// {"id": 99, "amount": 123.45}, without touching the decimal package's
// process-wide quoting flag.
func (c CashCard) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     int64           `json:"id"`
		Amount json.RawMessage `json:"amount"`
	}{
		ID:     c.ID,
		Amount: json.RawMessage(c.Amount.String()),
	})
}

// CreateCashCard is the request body for creating a cash card. It carries the
// amount only; any id or owner a client sends is dropped during decoding.
type CreateCashCard struct {
	Amount *decimal.Decimal `json:"amount"`
}
