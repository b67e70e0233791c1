package app

import (
	"fmt"

	"github.com/tradebot/gobinance/binance/client"
	"github.com/tradebot/gobinance/internal/audit"
	"github.com/tradebot/gobinance/internal/services"
	"github.com/tradebot/gobinance/pkg/config"
	"github.com/tradebot/gobinance/pkg/secretstore"
)

// Core bundles the wired trading components shared by the CLI and the HTTP
// server.
type Core struct {
	Client   *client.Client
	Orders   *services.OrderService
	Accounts *services.AccountService
	Trail    *audit.Log
}

// Build resolves credentials, connects the gateway (fatal if the exchange is
// unreachable), opens the audit trail, and wires the services.
func Build(cfg *config.Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := resolveCredentials(cfg); err != nil {
		return nil, err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	gw, err := client.New(client.Config{
		APIKey:     cfg.Exchange.APIKey,
		APISecret:  cfg.Exchange.APISecret,
		Testnet:    cfg.Exchange.Testnet,
		Timeout:    cfg.Exchange.Timeout,
		RecvWindow: cfg.Exchange.RecvWindow,
	})
	if err != nil {
		return nil, err
	}

	trail, err := audit.Open(cfg.Audit.DBPath)
	if err != nil {
		return nil, err
	}

	return &Core{
		Client:   gw,
		Orders:   services.NewOrderService(gw, trail),
		Accounts: services.NewAccountService(gw, gw),
		Trail:    trail,
	}, nil
}

// Close releases the audit store.
func (c *Core) Close() error {
	if c == nil || c.Trail == nil {
		return nil
	}
	return c.Trail.Close()
}

// resolveCredentials fills a missing key/secret pair from the encrypted
// secret store when one is configured. Environment and file values win.
func resolveCredentials(cfg *config.Config) error {
	if cfg.Exchange.APIKey != "" && cfg.Exchange.APISecret != "" {
		return nil
	}
	if cfg.SecretStore.Path == "" {
		return nil
	}

	keyBytes, err := secretstore.ParseKey(cfg.SecretStore.EncryptionKey)
	if err != nil {
		return fmt.Errorf("secret store key: %w", err)
	}
	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.SecretStore.Path,
		EncryptionKey: keyBytes,
		ReadOnly:      true,
	})
	if err != nil {
		return fmt.Errorf("open secret store: %w", err)
	}
	defer ss.Close()

	if cfg.Exchange.APIKey == "" {
		if v, ok, err := ss.GetString(secretstore.KeyAPIKey); err != nil {
			return err
		} else if ok {
			cfg.Exchange.APIKey = v
		}
	}
	if cfg.Exchange.APISecret == "" {
		if v, ok, err := ss.GetString(secretstore.KeyAPISecret); err != nil {
			return err
		} else if ok {
			cfg.Exchange.APISecret = v
		}
	}
	return nil
}
