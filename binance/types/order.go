package types

// NewOrderParams is the request payload for POST /fapi/v1/order.
// Quantity and Price are decimal strings; the exchange rejects values that
// violate its symbol filters, we never round locally.
type NewOrderParams struct {
	Symbol      string
	Side        Side
	Kind        OrderKind
	Quantity    string
	Price       string      // required for LIMIT, empty for MARKET
	TimeInForce TimeInForce // required for LIMIT
}

// OrderResponse is the futures order object as returned by the order
// endpoints (create/query/cancel). Numeric quantities arrive as strings.
type OrderResponse struct {
	OrderID       int64       `json:"orderId"`
	Symbol        string      `json:"symbol"`
	Status        OrderStatus `json:"status"`
	ClientOrderID string      `json:"clientOrderId"`
	Price         string      `json:"price"`
	AvgPrice      string      `json:"avgPrice"`
	OrigQty       string      `json:"origQty"`
	ExecutedQty   string      `json:"executedQty"`
	Side          Side        `json:"side"`
	Type          OrderKind   `json:"type"`
	TimeInForce   TimeInForce `json:"timeInForce"`
	ReduceOnly    bool        `json:"reduceOnly"`
	UpdateTime    int64       `json:"updateTime"`
}

// CancelResponse mirrors OrderResponse; the cancel endpoint returns the
// final order object.
type CancelResponse = OrderResponse

// APIErrorPayload is the body the exchange returns on any non-2xx response.
type APIErrorPayload struct {
	Code int64  `json:"code"`
	Msg  string `json:"msg"`
}
