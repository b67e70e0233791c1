package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
)

// Order is the domain view of an exchange order. It is built only from
// exchange responses; the bot never fabricates an OrderID and holds no
// authoritative state of its own. Refreshing means re-querying the exchange.
type Order struct {
	OrderID           int64             `json:"order_id"`
	Symbol            string            `json:"symbol"`
	Side              types.Side        `json:"side"`
	Kind              types.OrderKind   `json:"type"`
	RequestedQuantity decimal.Decimal   `json:"requested_quantity"`
	FilledQuantity    decimal.Decimal   `json:"filled_quantity"`
	Price             *decimal.Decimal  `json:"price,omitempty"` // nil for market orders until fill
	Status            types.OrderStatus `json:"status"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// IsTerminal reports whether the order can no longer transition.
func (o *Order) IsTerminal() bool {
	return o != nil && o.Status.IsTerminal()
}

// IsOpen reports whether the order is still working on the book.
func (o *Order) IsOpen() bool {
	return o != nil && !o.Status.IsTerminal()
}

// AccountSnapshot is a point-in-time balance read. Never cached across calls.
type AccountSnapshot struct {
	TotalWalletBalance decimal.Decimal
	Raw                json.RawMessage
}

// PriceQuote is a single fresh price read.
type PriceQuote struct {
	Symbol string
	Price  decimal.Decimal
}
