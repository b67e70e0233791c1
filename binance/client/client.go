package client

import (
	"context"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradebot/gobinance/internal/domain"
	"github.com/tradebot/gobinance/pkg/ratelimit"
)

var log = logrus.WithField("component", "binance_client")

// Config is everything the gateway needs at construction. The credential
// pair is set once here and never mutated.
type Config struct {
	APIKey     string
	APISecret  string
	Testnet    bool
	Timeout    time.Duration
	RecvWindow time.Duration
}

// Client is the sole network boundary to the exchange. One round trip per
// operation, no retries, no backoff, no reordering: that policy belongs to
// callers.
type Client struct {
	http        *httpClient
	rateLimiter *ratelimit.Manager
	testnet     bool
}

// New constructs the gateway and probes connectivity once. A gateway that
// cannot reach its endpoint must not come up: the probe failure is returned
// as ConnectivityError and is fatal to startup.
func New(cfg Config) (*Client, error) {
	host := HostProduction
	if cfg.Testnet {
		host = HostTestnet
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RecvWindow <= 0 {
		cfg.RecvWindow = 5 * time.Second
	}

	c := &Client{
		http:        newHTTPClient(host, cfg.APIKey, cfg.APISecret, cfg.Timeout, cfg.RecvWindow),
		rateLimiter: ratelimit.NewManager(),
		testnet:     cfg.Testnet,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		return nil, &domain.ConnectivityError{Err: err}
	}

	log.Infof("connected to %s (testnet=%v)", host, cfg.Testnet)
	return c, nil
}

// Ping performs an unauthenticated connectivity probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.do(ctx, "GET", EndpointPing, url.Values{}, false)
	return err
}

// Testnet reports which environment the client was constructed against.
func (c *Client) Testnet() bool {
	return c.testnet
}
