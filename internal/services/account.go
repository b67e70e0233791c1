package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tradebot/gobinance/internal/domain"
	"github.com/tradebot/gobinance/internal/metrics"
	"github.com/tradebot/gobinance/internal/ports"
)

var alog = logrus.WithField("component", "account_service")

// AccountService exposes read-only exchange views. Reads are not serialized:
// they carry no mutation risk and tolerate concurrent callers.
type AccountService struct {
	account ports.AccountGetter
	prices  ports.PriceGetter
}

func NewAccountService(account ports.AccountGetter, prices ports.PriceGetter) *AccountService {
	return &AccountService{account: account, prices: prices}
}

// GetBalance fetches a fresh account snapshot.
func (s *AccountService) GetBalance(ctx context.Context) (*domain.AccountSnapshot, error) {
	metrics.AccountReads.Add(1)
	snap, err := s.account.GetAccount(ctx)
	if err != nil {
		alog.Errorf("account read failed: %v", err)
		return nil, err
	}
	return snap, nil
}

// GetPrice fetches the current ticker price for one symbol.
func (s *AccountService) GetPrice(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	metrics.PriceReads.Add(1)
	quote, err := s.prices.GetPrice(ctx, symbol)
	if err != nil {
		alog.Errorf("price read failed: symbol=%s %v", symbol, err)
		return nil, err
	}
	return quote, nil
}
