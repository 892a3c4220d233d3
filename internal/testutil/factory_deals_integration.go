//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/shopspring/decimal"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// Мини-генератор валидной сделки
func MakeDeal(opts ...func(*domain.Deal)) domain.Deal {
	d := domain.Deal{
		DealID:        "DEAL-" + UniqSuffix(),
		FromCurrency:  "USD",
		ToCurrency:    "EUR",
		DealTimestamp: time.Now().UTC().Truncate(time.Second),
		DealAmount:    decimal.RequireFromString("1000.50"),
	}

	for _, fn := range opts {
		fn(&d)
	}
	return d
}

// MakeDealRequest — тот же генератор в виде входного запроса.
func MakeDealRequest(opts ...func(*domain.Deal)) domain.DealRequest {
	d := MakeDeal(opts...)
	return domain.DealRequest{
		DealID:        d.DealID,
		FromCurrency:  d.FromCurrency,
		ToCurrency:    d.ToCurrency,
		DealTimestamp: d.DealTimestamp.Format(domain.TimestampLayout),
		DealAmount:    domain.FormatAmount(d.DealAmount),
	}
}

func WithDealID(id string) func(*domain.Deal) {
	return func(d *domain.Deal) { d.DealID = id }
}

func WithCurrencies(from, to string) func(*domain.Deal) {
	return func(d *domain.Deal) {
		d.FromCurrency = from
		d.ToCurrency = to
	}
}

func WithAmount(amount string) func(*domain.Deal) {
	return func(d *domain.Deal) { d.DealAmount = decimal.RequireFromString(amount) }
}
