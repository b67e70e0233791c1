package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/domain"
)

// SubmitOrder places one order in a single round trip. The request is
// assumed validated; quantity and price are transmitted exactly as supplied,
// the exchange enforces its own filters. Limit orders are always GTC. No
// client order id is attached and no retry happens here: a timeout leaves
// the order state on the exchange unknown and the caller reconciles through
// GetOrder/ListOpenOrders.
func (c *Client) SubmitOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	if err := c.rateLimiter.Wait(ctx, routeOrderPost); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "rate limiter: " + err.Error()}
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", string(req.Side))
	params.Set("type", string(req.Kind))
	params.Set("quantity", req.Quantity.String())
	if req.Kind == types.OrderKindLimit {
		params.Set("price", req.Price.String())
		params.Set("timeInForce", string(types.TimeInForceGTC))
	}

	body, err := c.http.do(ctx, "POST", EndpointOrder, params, true)
	if err != nil {
		return nil, err
	}

	var resp types.OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable order payload: " + err.Error()}
	}
	log.Debugf("order accepted: symbol=%s orderId=%d status=%s", resp.Symbol, resp.OrderID, resp.Status)
	return orderFromResponse(&resp)
}

// GetOrder queries one order fresh. No local interpretation happens beyond
// decoding: a later call may legitimately still report NEW.
func (c *Client) GetOrder(ctx context.Context, symbol string, orderID int64) (*domain.Order, error) {
	if err := c.rateLimiter.Wait(ctx, routeOrderGet); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "rate limiter: " + err.Error()}
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.http.do(ctx, "GET", EndpointOrder, params, true)
	if err != nil {
		return nil, err
	}

	var resp types.OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable order payload: " + err.Error()}
	}
	return orderFromResponse(&resp)
}

// CancelOrder requests cancellation and returns the final order object the
// exchange reports. Cancelling an order the exchange no longer has open
// surfaces as an OrderError; the orchestrator decides what that means.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (*domain.Order, error) {
	if err := c.rateLimiter.Wait(ctx, routeOrderDelete); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "rate limiter: " + err.Error()}
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	body, err := c.http.do(ctx, "DELETE", EndpointOrder, params, true)
	if err != nil {
		return nil, err
	}

	var resp types.CancelResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable cancel payload: " + err.Error()}
	}
	log.Debugf("order canceled: symbol=%s orderId=%d", resp.Symbol, resp.OrderID)
	return orderFromResponse(&resp)
}

// ListOpenOrders lists working orders, optionally scoped to one symbol.
// No open orders is an empty slice, not an error.
func (c *Client) ListOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error) {
	if err := c.rateLimiter.Wait(ctx, routeOpenOrdersGet); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "rate limiter: " + err.Error()}
	}

	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	body, err := c.http.do(ctx, "GET", EndpointOpenOrders, params, true)
	if err != nil {
		return nil, err
	}

	var resp []types.OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable open orders payload: " + err.Error()}
	}

	orders := make([]*domain.Order, 0, len(resp))
	for i := range resp {
		order, err := orderFromResponse(&resp[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}
