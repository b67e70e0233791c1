package client

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/domain"
)

// GetAccount reads the account fresh from the exchange. The snapshot is
// never cached: callers needing freshness re-invoke.
func (c *Client) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
	if err := c.rateLimiter.Wait(ctx, routeAccountGet); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "rate limiter: " + err.Error()}
	}

	body, err := c.http.do(ctx, "GET", EndpointAccount, url.Values{}, true)
	if err != nil {
		return nil, err
	}

	var resp types.AccountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable account payload: " + err.Error()}
	}
	balance, err := decimal.NewFromString(resp.TotalWalletBalance)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.APIUnknown, Msg: "unparsable totalWalletBalance: " + resp.TotalWalletBalance}
	}

	return &domain.AccountSnapshot{
		TotalWalletBalance: balance,
		Raw:                json.RawMessage(body),
	}, nil
}
