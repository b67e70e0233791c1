package types

// Side is the order direction as the exchange spells it.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Valid reports whether the side is one the exchange accepts.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderKind is the exchange order type parameter.
type OrderKind string

const (
	OrderKindMarket OrderKind = "MARKET"
	OrderKindLimit  OrderKind = "LIMIT"
)

// TimeInForce controls how long a resting order stays on the book.
type TimeInForce string

const (
	// TimeInForceGTC keeps the order resting until filled or canceled.
	TimeInForceGTC TimeInForce = "GTC"
)

// OrderStatus is the exchange-reported order state. The exchange is the
// single source of truth; these values are never computed locally.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "NEW"
	OrderStatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled          OrderStatus = "FILLED"
	OrderStatusCanceled        OrderStatus = "CANCELED"
	OrderStatusExpired         OrderStatus = "EXPIRED"
	OrderStatusRejected        OrderStatus = "REJECTED"
)

// IsTerminal reports whether no further transition can occur.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusExpired, OrderStatusRejected:
		return true
	}
	return false
}
