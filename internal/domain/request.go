package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
)

// OrderRequest is a caller intent to place one order. It lives only for the
// duration of a single submission call and is never persisted on its own.
type OrderRequest struct {
	Symbol   string
	Side     types.Side
	Kind     types.OrderKind
	Quantity decimal.Decimal
	Price    *decimal.Decimal // required iff Kind == LIMIT
}

// NewMarketOrderRequest builds a market order intent.
func NewMarketOrderRequest(symbol string, side types.Side, quantity decimal.Decimal) OrderRequest {
	return OrderRequest{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Side:     side,
		Kind:     types.OrderKindMarket,
		Quantity: quantity,
	}
}

// NewLimitOrderRequest builds a limit order intent (GTC semantics: the order
// rests on the book until filled or explicitly canceled).
func NewLimitOrderRequest(symbol string, side types.Side, quantity, price decimal.Decimal) OrderRequest {
	return OrderRequest{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Side:     side,
		Kind:     types.OrderKindLimit,
		Quantity: quantity,
		Price:    &price,
	}
}

// Validate checks the request shape before any network call. Rules apply in
// order and short-circuit on the first failure: symbol, side, quantity, then
// price (only when supplied or required). Fully deterministic, no side
// effects.
func (r OrderRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return &ValidationError{Kind: InvalidSymbol, Msg: "symbol must be a non-empty trading pair like BTCUSDT"}
	}
	if !r.Side.Valid() {
		return &ValidationError{Kind: InvalidSide, Msg: "side must be BUY or SELL"}
	}
	if !r.Quantity.IsPositive() {
		return &ValidationError{Kind: InvalidQuantity, Msg: "quantity must be greater than 0"}
	}
	if r.Kind == types.OrderKindLimit && r.Price == nil {
		return &ValidationError{Kind: InvalidPrice, Msg: "limit orders require a price"}
	}
	if r.Price != nil && !r.Price.IsPositive() {
		return &ValidationError{Kind: InvalidPrice, Msg: "price must be greater than 0"}
	}
	return nil
}
