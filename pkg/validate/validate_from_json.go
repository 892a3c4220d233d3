package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
)

// ErrInvalidJSON — вход не разбирается как сделка или массив сделок.
var ErrInvalidJSON = errors.New("invalid json")

// DecodeDealRequests — строгий разбор JSON: объект сделки или массив объектов.
// Неизвестные поля и данные после документа запрещены.
func DecodeDealRequests(raw []byte) ([]domain.DealRequest, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var reqs []domain.DealRequest
	if trimmed[0] == '[' {
		if err := dec.Decode(&reqs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
	} else {
		var one domain.DealRequest
		if err := dec.Decode(&one); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		reqs = append(reqs, one)
	}

	// гарантируем отсутствие данных после документа
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}
	return reqs, nil
}

// SeenIndex — индекс уникальности в памяти для офлайн-проверки файлов.
// Первое вхождение dealId принимается, повторы отклоняются правилом уникальности.
type SeenIndex struct {
	ids map[string]struct{}
}

// NewSeenIndex — пустой индекс.
func NewSeenIndex() *SeenIndex {
	return &SeenIndex{ids: make(map[string]struct{})}
}

// Exists — реализация ports.DealIndex.
func (s *SeenIndex) Exists(_ context.Context, dealID string) (bool, error) {
	_, ok := s.ids[dealID]
	return ok, nil
}

// Add — отметить dealId как принятый.
func (s *SeenIndex) Add(dealID string) {
	s.ids[dealID] = struct{}{}
}

var _ ports.DealIndex = (*SeenIndex)(nil)

// ValidateDeals — прогоняет запросы по порядку через validator и делит их на принятые и отклонённые.
func ValidateDeals(ctx context.Context, validator ports.DealValidator, seen *SeenIndex, reqs []domain.DealRequest) (domain.BatchResult, error) {
	var res domain.BatchResult
	for i := range reqs {
		req := &reqs[i]
		msgs, err := validator.Validate(ctx, req, seen)
		if err != nil {
			return res, err
		}
		if len(msgs) > 0 {
			res.Rejected = append(res.Rejected, domain.RejectedDeal{DealID: req.DealID, ValidationMsgs: msgs})
			continue
		}
		deal, err := req.ToDeal()
		if err != nil {
			return res, fmt.Errorf("convert deal %q: %w", req.DealID, err)
		}
		seen.Add(deal.DealID)
		res.Accepted = append(res.Accepted, deal)
	}
	return res, nil
}

// ValidateDealsFromJSON — разбор документа и проверка всех сделок в нём.
func ValidateDealsFromJSON(ctx context.Context, validator ports.DealValidator, seen *SeenIndex, raw []byte) (domain.BatchResult, error) {
	reqs, err := DecodeDealRequests(raw)
	if err != nil {
		return domain.BatchResult{}, err
	}
	return ValidateDeals(ctx, validator, seen, reqs)
}

// writeResult — принятые сделки в ow, отклонённые в rw; по одному компактному JSON на строку.
func writeResult(res domain.BatchResult, ow, rw io.Writer) error {
	for _, d := range res.Accepted {
		if err := writeLine(ow, d); err != nil {
			return fmt.Errorf("write valid deal: %w", err)
		}
	}
	for _, r := range res.Rejected {
		if err := writeLine(rw, r); err != nil {
			return fmt.Errorf("write rejected deal: %w", err)
		}
	}
	return nil
}

func writeLine(w io.Writer, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = w.Write(line)
	return err
}
