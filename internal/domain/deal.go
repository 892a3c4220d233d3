package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout — единственный допустимый формат времени сделки (yyyy-MM-dd HH:mm:ss).
const TimestampLayout = "2006-01-02 15:04:05"

// Границы суммы: не больше MaxAmountIntegerDigits цифр до точки и MaxAmountScale после.
const (
	MaxAmountIntegerDigits = 64
	MaxAmountScale         = 32
)

// time.Parse терпит дробные секунды и однозначные часы, поэтому форму проверяем отдельно.
var timestampShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)

var (
	errTimestampFormat = errors.New("timestamp does not match " + TimestampLayout)
	errAmountFormat    = errors.New("amount is not a decimal number")
	errAmountRange     = errors.New("amount is out of range")
)

// ParseDealTimestamp — разбор времени сделки: строго TimestampLayout, календарная дата проверяется (включая 29 февраля).
// Год нашей эры, начиная с 0001.
func ParseDealTimestamp(s string) (time.Time, error) {
	if !timestampShape.MatchString(s) {
		return time.Time{}, errTimestampFormat
	}
	ts, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errTimestampFormat, err)
	}
	if ts.Year() < 1 {
		return time.Time{}, fmt.Errorf("%w: year %04d", errTimestampFormat, ts.Year())
	}
	return ts, nil
}

// ParseDealAmount — разбор суммы как десятичного числа (допускается экспонента: 1.5E3).
// Суммы за пределами MaxAmountIntegerDigits и MaxAmountScale считаются невалидными.
func ParseDealAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", errAmountFormat, err)
	}

	exp := int64(amount.Exponent())
	if -exp > MaxAmountScale {
		return decimal.Decimal{}, fmt.Errorf("%w: %w: scale %d", errAmountFormat, errAmountRange, -exp)
	}
	digits := int64(len(new(big.Int).Abs(amount.Coefficient()).String()))
	if digits+exp > MaxAmountIntegerDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: %w: %d integer digits", errAmountFormat, errAmountRange, digits+exp)
	}
	return amount, nil
}

// DealRequest — сделка в том виде, в каком она пришла от клиента (все поля текстовые).
type DealRequest struct {
	DealID        string `json:"dealId"`
	FromCurrency  string `json:"fromCurrency"`
	ToCurrency    string `json:"toCurrency"`
	DealTimestamp string `json:"dealTimestamp"`
	DealAmount    string `json:"dealAmount"`
}

// Deal — сохранённая сделка. Создаётся только успешным импортом и больше не меняется.
type Deal struct {
	DealID        string
	FromCurrency  string
	ToCurrency    string
	DealTimestamp time.Time
	DealAmount    decimal.Decimal
}

// RejectedDeal — отклонённая сделка: исходный dealId и причины в порядке проверки правил.
type RejectedDeal struct {
	DealID         string   `json:"dealId"`
	ValidationMsgs []string `json:"validationMsgs"`
}

// BatchResult — разбиение пакета на принятые и отклонённые сделки (порядок входа сохраняется).
type BatchResult struct {
	Accepted []*Deal
	Rejected []RejectedDeal
}

// ToDeal — перевод прошедшего валидацию запроса в сделку.
func (r *DealRequest) ToDeal() (*Deal, error) {
	ts, err := ParseDealTimestamp(r.DealTimestamp)
	if err != nil {
		return nil, err
	}
	amount, err := ParseDealAmount(r.DealAmount)
	if err != nil {
		return nil, err
	}
	return &Deal{
		DealID:        r.DealID,
		FromCurrency:  r.FromCurrency,
		ToCurrency:    r.ToCurrency,
		DealTimestamp: ts,
		DealAmount:    amount,
	}, nil
}

// dealJSON — внешнее представление сделки.
type dealJSON struct {
	DealID        string      `json:"dealId"`
	FromCurrency  string      `json:"fromCurrency"`
	ToCurrency    string      `json:"toCurrency"`
	DealTimestamp string      `json:"dealTimestamp"`
	DealAmount    json.Number `json:"dealAmount"`
}

// MarshalJSON — время в формате TimestampLayout, сумма числом с исходной точностью ("1000.50", а не 1000.5).
func (d Deal) MarshalJSON() ([]byte, error) {
	return json.Marshal(dealJSON{
		DealID:        d.DealID,
		FromCurrency:  d.FromCurrency,
		ToCurrency:    d.ToCurrency,
		DealTimestamp: d.DealTimestamp.Format(TimestampLayout),
		DealAmount:    json.Number(FormatAmount(d.DealAmount)),
	})
}

// UnmarshalJSON — обратное к MarshalJSON преобразование (сумма принимается и числом, и строкой).
func (d *Deal) UnmarshalJSON(data []byte) error {
	var raw struct {
		DealID        string          `json:"dealId"`
		FromCurrency  string          `json:"fromCurrency"`
		ToCurrency    string          `json:"toCurrency"`
		DealTimestamp string          `json:"dealTimestamp"`
		DealAmount    decimal.Decimal `json:"dealAmount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := ParseDealTimestamp(raw.DealTimestamp)
	if err != nil {
		return err
	}
	*d = Deal{
		DealID:        raw.DealID,
		FromCurrency:  raw.FromCurrency,
		ToCurrency:    raw.ToCurrency,
		DealTimestamp: ts,
		DealAmount:    raw.DealAmount,
	}
	return nil
}

// FormatAmount — строка суммы без потери масштаба: 1000.50 остаётся 1000.50, 1.5E3 становится 1500.
func FormatAmount(amount decimal.Decimal) string {
	places := -amount.Exponent()
	if places < 0 {
		places = 0
	}
	return amount.StringFixed(places)
}

// Clone — копия сделки (decimal и time неизменяемые, достаточно поверхностной копии).
func (d *Deal) Clone() *Deal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
