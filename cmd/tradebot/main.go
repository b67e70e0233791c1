package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/tradebot/gobinance/binance/types"
	"github.com/tradebot/gobinance/internal/app"
	"github.com/tradebot/gobinance/internal/domain"
	"github.com/tradebot/gobinance/pkg/config"
	"github.com/tradebot/gobinance/pkg/logger"
)

const usage = `usage: tradebot [-config FILE] COMMAND [ARGS]

commands:
  balance                              show account wallet balance
  price SYMBOL                         show current ticker price
  buy SYMBOL QTY                       market buy
  sell SYMBOL QTY                      market sell
  buy-limit SYMBOL QTY PRICE           GTC limit buy
  sell-limit SYMBOL QTY PRICE          GTC limit sell
  status SYMBOL ORDER_ID               query one order
  open [SYMBOL]                        list open orders
  cancel SYMBOL ORDER_ID               cancel one order
`

func main() {
	configPath := flag.String("config", "", "config file path (.yaml, .yml or .json)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall command timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	_ = godotenv.Load()

	if err := logger.InitDefault(); err != nil {
		fatal(err)
	}

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	core, err := app.Build(cfg)
	if err != nil {
		fatal(err)
	}
	defer core.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := run(ctx, core, args[0], args[1:])
	if err != nil {
		fatal(err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func run(ctx context.Context, core *app.Core, command string, args []string) (any, error) {
	switch command {
	case "balance":
		snap, err := core.Accounts.GetBalance(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{"total_wallet_balance": snap.TotalWalletBalance.String()}, nil

	case "price":
		if len(args) != 1 {
			return nil, usageError("price SYMBOL")
		}
		quote, err := core.Accounts.GetPrice(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return map[string]string{"symbol": quote.Symbol, "price": quote.Price.String()}, nil

	case "buy", "sell":
		if len(args) != 2 {
			return nil, usageError(command + " SYMBOL QTY")
		}
		qty, err := parseDecimal(args[1], "quantity")
		if err != nil {
			return nil, err
		}
		return core.Orders.PlaceMarketOrder(ctx, args[0], sideOf(command), qty)

	case "buy-limit", "sell-limit":
		if len(args) != 3 {
			return nil, usageError(command + " SYMBOL QTY PRICE")
		}
		qty, err := parseDecimal(args[1], "quantity")
		if err != nil {
			return nil, err
		}
		price, err := parseDecimal(args[2], "price")
		if err != nil {
			return nil, err
		}
		return core.Orders.PlaceLimitOrder(ctx, args[0], sideOf(command), qty, price)

	case "status":
		symbol, orderID, err := parseOrderRef(args)
		if err != nil {
			return nil, err
		}
		return core.Orders.QueryStatus(ctx, symbol, orderID)

	case "open":
		symbol := ""
		if len(args) > 0 {
			symbol = args[0]
		}
		orders, err := core.Orders.ListOpenOrders(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return map[string]any{"orders": orders}, nil

	case "cancel":
		symbol, orderID, err := parseOrderRef(args)
		if err != nil {
			return nil, err
		}
		return core.Orders.CancelOrder(ctx, symbol, orderID)

	default:
		return nil, usageError("unknown command: " + command)
	}
}

func sideOf(command string) types.Side {
	if command == "buy" || command == "buy-limit" {
		return types.SideBuy
	}
	return types.SideSell
}

func parseDecimal(raw, what string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number, got %q", what, raw)
	}
	return d, nil
}

func parseOrderRef(args []string) (string, int64, error) {
	if len(args) != 2 {
		return "", 0, usageError("expected SYMBOL ORDER_ID")
	}
	var orderID int64
	if _, err := fmt.Sscanf(args[1], "%d", &orderID); err != nil || orderID <= 0 {
		return "", 0, fmt.Errorf("order id must be a positive integer, got %q", args[1])
	}
	return args[0], orderID, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\n%s", msg, usage)
}

// fatal prints the error kind for the taxonomy types so scripts can branch on
// it, then exits non-zero.
func fatal(err error) {
	var (
		valErr  *domain.ValidationError
		ordErr  *domain.OrderError
		apiErr  *domain.APIError
		connErr *domain.ConnectivityError
	)
	switch {
	case errors.As(err, &valErr):
		fmt.Fprintf(os.Stderr, "error [%s]: %s\n", valErr.Kind, valErr.Msg)
	case errors.As(err, &ordErr):
		fmt.Fprintf(os.Stderr, "error [%s]: %s\n", ordErr.Kind, ordErr.Msg)
	case errors.As(err, &apiErr):
		fmt.Fprintf(os.Stderr, "error [%s]: %s\n", apiErr.Kind, apiErr.Msg)
	case errors.As(err, &connErr):
		fmt.Fprintf(os.Stderr, "error [CONNECTIVITY]: %v\n", err)
	default:
		fmt.Fprintln(os.Stderr, "error:", err.Error())
	}
	os.Exit(1)
}
