package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/domain"
)

// GetPrice reads the current ticker price for one symbol. Fresh every call.
func (c *Client) GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	if err := c.rateLimiter.Wait(ctx, routeTickerGet); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "rate limiter: " + err.Error()}
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.http.do(ctx, "GET", EndpointTickerPrice, params, false)
	if err != nil {
		return nil, err
	}

	var resp types.TickerPrice
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable ticker payload: " + err.Error()}
	}
	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable price: " + resp.Price}
	}

	return &domain.PriceQuote{
		Symbol: resp.Symbol,
		Price:  price,
	}, nil
}
