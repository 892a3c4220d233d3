package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
	"github.com/go-playground/validator/v10"
)

// Проверка, что DealValidator удовлетворяет интерфейсу DealValidator.
var _ ports.DealValidator = (*DealValidator)(nil)

// Сообщения о нарушениях; тексты видны клиенту и не меняются.
const (
	MsgDealIDRequired        = "Deal Id is required"
	MsgFromCurrencyRequired  = "From currency is required"
	MsgToCurrencyRequired    = "To currency is required"
	MsgTimestampRequired     = "Deal timestamp is required"
	MsgAmountRequired        = "Deal amount is required"
	MsgTimestampFormat       = "Invalid deal timestamp format, should be yyyy-MM-dd HH:mm:ss"
	MsgAmountFormat          = "Deal amount must be a valid decimal number"
	MsgAmountPositive        = "Deal amount must be a positive number"
	MsgFromCurrencyInvalid   = "From currency must be a valid ISO currency"
	MsgToCurrencyInvalid     = "To currency must be a valid ISO currency"
	MsgCurrenciesMustDiffer  = "From currency and To currency must be different"
	msgDealExistsFormat      = "Deal with id %s already exists"
	currencyCodeValidatorTag = "iso4217"
)

// DealExistsMsg — сообщение правила уникальности для конкретного dealId.
func DealExistsMsg(dealID string) string {
	return fmt.Sprintf(msgDealExistsFormat, dealID)
}

// DealValidator — правила приёма сделки.
// Все правила, кроме уникальности, чистые; уникальность проверяется последней через ports.DealIndex.
type DealValidator struct {
	codes *validator.Validate
}

// NewDealValidator — конструктор DealValidator.
func NewDealValidator() *DealValidator {
	return &DealValidator{codes: validator.New()}
}

// Validate — собирает все нарушения в фиксированном порядке правил.
// index == nil отключает проверку уникальности.
func (v *DealValidator) Validate(ctx context.Context, req *domain.DealRequest, index ports.DealIndex) ([]string, error) {
	if req == nil {
		req = &domain.DealRequest{}
	}

	msgs := v.Static(req)

	if index == nil || isBlank(req.DealID) {
		return msgs, nil
	}
	exists, err := index.Exists(ctx, req.DealID)
	if err != nil {
		return msgs, fmt.Errorf("check deal id %q: %w", req.DealID, err)
	}
	if exists {
		msgs = append(msgs, DealExistsMsg(req.DealID))
	}
	return msgs, nil
}

// Static — правила, не требующие хранилища.
func (v *DealValidator) Static(req *domain.DealRequest) []string {
	var msgs []string

	// обязательные поля
	required := []struct {
		value string
		msg   string
	}{
		{req.DealID, MsgDealIDRequired},
		{req.FromCurrency, MsgFromCurrencyRequired},
		{req.ToCurrency, MsgToCurrencyRequired},
		{req.DealTimestamp, MsgTimestampRequired},
		{req.DealAmount, MsgAmountRequired},
	}
	for _, r := range required {
		if isBlank(r.value) {
			msgs = append(msgs, r.msg)
		}
	}

	if !isBlank(req.DealTimestamp) {
		if _, err := domain.ParseDealTimestamp(req.DealTimestamp); err != nil {
			msgs = append(msgs, MsgTimestampFormat)
		}
	}

	if !isBlank(req.DealAmount) {
		amount, err := domain.ParseDealAmount(req.DealAmount)
		switch {
		case err != nil:
			msgs = append(msgs, MsgAmountFormat)
		case amount.Sign() <= 0:
			msgs = append(msgs, MsgAmountPositive)
		}
	}

	if !isBlank(req.FromCurrency) && !v.isCurrencyCode(req.FromCurrency) {
		msgs = append(msgs, MsgFromCurrencyInvalid)
	}
	if !isBlank(req.ToCurrency) && !v.isCurrencyCode(req.ToCurrency) {
		msgs = append(msgs, MsgToCurrencyInvalid)
	}

	if !isBlank(req.FromCurrency) && !isBlank(req.ToCurrency) && req.FromCurrency == req.ToCurrency {
		msgs = append(msgs, MsgCurrenciesMustDiffer)
	}

	return msgs
}

// isCurrencyCode — буквенный код ISO 4217, строго в верхнем регистре.
func (v *DealValidator) isCurrencyCode(code string) bool {
	return v.codes.Var(code, currencyCodeValidatorTag) == nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
