package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Action is the kind of trade action recorded in the ledger.
type Action string

// Trade actions.
const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionStake Action = "STAKE"
	ActionLend  Action = "LEND"
)

// ErrInvalidTrade is returned when a trade fails validation.
var ErrInvalidTrade = errors.New("invalid trade")

var validate = validator.New()

// Trade is an immutable record of one completed or attempted trade action.
// Corresponds to the trades table.
type Trade struct {
	ID         string         `json:"id" validate:"required"`
	Timestamp  time.Time      `json:"timestamp" validate:"required"`
	Symbol     string         `json:"symbol" validate:"required"`
	Action     Action         `json:"action" validate:"required,oneof=BUY SELL STAKE LEND"`
	Platform   string         `json:"platform" validate:"required"`
	Amount     float64        `json:"amount" validate:"gte=0"`
	Price      float64        `json:"price" validate:"gte=0"`
	Value      float64        `json:"value" validate:"gte=0"` // amount * price
	TxRef      string         `json:"tx_ref,omitempty"`       // transaction hash or reference
	Success    bool           `json:"success"`
	ProfitLoss *float64       `json:"profit_loss,omitempty"` // nullable, realized P&L in SOL
	Fees       float64        `json:"fees" validate:"gte=0"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewTrade builds a trade with Value computed as amount * price.
func NewTrade(id string, ts time.Time, symbol string, action Action, platform string, amount, price float64) *Trade {
	return &Trade{
		ID:        id,
		Timestamp: ts,
		Symbol:    symbol,
		Action:    action,
		Platform:  platform,
		Amount:    amount,
		Price:     price,
		Value:     amount * price,
	}
}

// Validate checks field constraints. Errors wrap ErrInvalidTrade.
func (t *Trade) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil trade", ErrInvalidTrade)
	}
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTrade, err)
	}
	return nil
}

// PnL returns the profit/loss and whether it was present.
func (t *Trade) PnL() (float64, bool) {
	if t.ProfitLoss == nil {
		return 0, false
	}
	return *t.ProfitLoss, true
}

// Clone returns a deep copy of the trade.
func (t *Trade) Clone() *Trade {
	c := *t
	if t.ProfitLoss != nil {
		pl := *t.ProfitLoss
		c.ProfitLoss = &pl
	}
	if t.Metadata != nil {
		c.Metadata = make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// EquityCurvePoint is one append-only balance snapshot.
type EquityCurvePoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Balance    float64   `json:"balance"`
	SessionPnL float64   `json:"session_pnl"` // balance - initial balance
	TotalPnL   float64   `json:"total_pnl"`   // sum of session trade P&L
}
