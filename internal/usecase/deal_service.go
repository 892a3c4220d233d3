package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
	"github.com/Gunvolt24/fx_deals/pkg/metrics"
	"github.com/Gunvolt24/fx_deals/pkg/telemetry"
	"github.com/Gunvolt24/fx_deals/pkg/validate"
)

// Сообщения для сделок, прошедших правила, но не записанных хранилищем.
const (
	MsgStoreDuplicate = "Database error: duplicate deal id"
	MsgStoreFailure   = "Database error: deal could not be saved"
)

// Проверка, что DealService удовлетворяет интерфейсу DealService.
var _ ports.DealService = (*DealService)(nil)

// DealService — прикладная логика импорта и чтения сделок (без знаний о транспорте).
type DealService struct {
	repo      ports.DealRepository // прямой доступ к хранилищу
	cache     ports.DealCache      // прямой доступ к кэшу
	log       ports.Logger         // прямой доступ к логгеру
	validator ports.DealValidator  // прямой доступ к валидатору
}

// NewDealService — DI-конструктор.
func NewDealService(
	repo ports.DealRepository,
	cache ports.DealCache,
	log ports.Logger,
	validator ports.DealValidator,
) *DealService {
	return &DealService{
		repo:      repo,
		cache:     cache,
		log:       log,
		validator: validator,
	}
}

// outcome — итог обработки одной сделки: ровно одно из deal, rejected, storeErr.
type outcome struct {
	deal     *domain.Deal
	rejected *domain.RejectedDeal
	storeErr error
}

// importItem — Received → Validating → Accepted | Rejected для одной сделки.
// Уникальность проверяется по хранилищу, поэтому каждая запись видна следующим сделкам.
func (s *DealService) importItem(ctx context.Context, req *domain.DealRequest) outcome {
	msgs, err := s.validator.Validate(ctx, req, s.repo)
	if err != nil {
		return outcome{storeErr: err}
	}
	if len(msgs) > 0 {
		return outcome{rejected: &domain.RejectedDeal{DealID: req.DealID, ValidationMsgs: msgs}}
	}

	deal, err := req.ToDeal()
	if err != nil {
		return outcome{storeErr: fmt.Errorf("convert deal: %w", err)}
	}

	saved, err := s.repo.Save(ctx, deal)
	if err != nil {
		return outcome{storeErr: err}
	}

	if setErr := s.cache.Set(ctx, saved); setErr != nil {
		s.log.Warnf(ctx, "cache.Set failed deal_id=%s err=%v", saved.DealID, setErr)
	}
	return outcome{deal: saved}
}

// ImportOne — импорт одной сделки.
// Нарушение правил → *domain.SingleImportRejectedError без записи; сбой хранилища → обёрнутая ошибка.
func (s *DealService) ImportOne(ctx context.Context, req *domain.DealRequest) (deal *domain.Deal, err error) {
	if req == nil {
		req = &domain.DealRequest{}
	}

	ctx, span := telemetry.StartSpan(ctx, "deals.import_one", telemetry.AttrDealID.String(req.DealID))
	defer func() { telemetry.EndSpan(span, err) }()

	res := s.importItem(ctx, req)
	switch {
	case res.storeErr != nil:
		metrics.DealsImported.WithLabelValues(metrics.ModeSingle, metrics.OutcomeStoreError).Inc()
		s.log.Errorf(ctx, "import failed deal_id=%s err=%v", req.DealID, res.storeErr)
		return nil, fmt.Errorf("import deal %q: %w", req.DealID, res.storeErr)
	case res.rejected != nil:
		metrics.DealsImported.WithLabelValues(metrics.ModeSingle, metrics.OutcomeRejected).Inc()
		s.log.Warnf(ctx, "deal rejected deal_id=%s reasons=%v", req.DealID, res.rejected.ValidationMsgs)
		return nil, &domain.SingleImportRejectedError{Rejected: *res.rejected}
	default:
		metrics.DealsImported.WithLabelValues(metrics.ModeSingle, metrics.OutcomeAccepted).Inc()
		s.log.Infof(ctx, "deal saved deal_id=%s", res.deal.DealID)
		return res.deal, nil
	}
}

// ImportMany — пакетный импорт: строго по порядку, отказ одной сделки пакет не прерывает.
// Принятые сделки записываются сразу и не откатываются.
// Есть отказы → *domain.BatchImportRejectedError с обеими частями.
func (s *DealService) ImportMany(ctx context.Context, reqs []domain.DealRequest) ([]*domain.Deal, error) {
	metrics.DealsBatchSize.Observe(float64(len(reqs)))
	return s.importMany(ctx, metrics.ModeBatch, reqs)
}

func (s *DealService) importMany(ctx context.Context, mode string, reqs []domain.DealRequest) (accepted []*domain.Deal, err error) {
	ctx, span := telemetry.StartSpan(ctx, "deals.import_"+mode, telemetry.AttrBatchSize.Int(len(reqs)))
	defer func() { telemetry.EndSpan(span, err) }()

	start := time.Now()
	batch := domain.BatchResult{Accepted: make([]*domain.Deal, 0, len(reqs))}
	storeFailures := 0

	for i := range reqs {
		req := &reqs[i]
		res := s.importItem(ctx, req)

		switch {
		case res.storeErr != nil:
			storeFailures++
			metrics.DealsImported.WithLabelValues(mode, metrics.OutcomeStoreError).Inc()
			s.log.Errorf(ctx, "batch item %d store failure deal_id=%s err=%v", i, req.DealID, res.storeErr)
			batch.Rejected = append(batch.Rejected, domain.RejectedDeal{
				DealID:         req.DealID,
				ValidationMsgs: []string{storeFailureMsg(res.storeErr)},
			})
		case res.rejected != nil:
			metrics.DealsImported.WithLabelValues(mode, metrics.OutcomeRejected).Inc()
			s.log.Debugf(ctx, "batch item %d rejected deal_id=%s reasons=%v", i, req.DealID, res.rejected.ValidationMsgs)
			batch.Rejected = append(batch.Rejected, *res.rejected)
		default:
			metrics.DealsImported.WithLabelValues(mode, metrics.OutcomeAccepted).Inc()
			batch.Accepted = append(batch.Accepted, res.deal)
		}
	}

	s.log.Infof(ctx, "batch processed mode=%s total=%d accepted=%d rejected=%d took=%s",
		mode, len(reqs), len(batch.Accepted), len(batch.Rejected), time.Since(start))

	if len(batch.Rejected) > 0 {
		return batch.Accepted, &domain.BatchImportRejectedError{
			Rejected:      batch.Rejected,
			Accepted:      batch.Accepted,
			StoreFailures: storeFailures,
		}
	}
	return batch.Accepted, nil
}

// storeFailureMsg — текст отказа по вине хранилища; отличается от сообщений правил префиксом "Database error:".
func storeFailureMsg(err error) string {
	if errors.Is(err, domain.ErrDealExists) {
		return MsgStoreDuplicate
	}
	return MsgStoreFailure
}

// ListAll — все сделки в порядке, который отдаёт хранилище.
func (s *DealService) ListAll(ctx context.Context) ([]*domain.Deal, error) {
	deals, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Errorf(ctx, "repo.FindAll failed err=%v", err)
		return nil, err
	}
	return deals, nil
}

// RecentDeals — последние limit сделок, новые первыми.
func (s *DealService) RecentDeals(ctx context.Context, limit int) ([]*domain.Deal, error) {
	deals, err := s.repo.LastN(ctx, limit)
	if err != nil {
		s.log.Errorf(ctx, "repo.LastN failed limit=%d err=%v", limit, err)
		return nil, err
	}
	return deals, nil
}

// GetDeal — сделка по dealId: сначала из кэша, при промахе — из хранилища с записью в кэш.
// Возвращает (*Deal, nil) или (nil, nil), если записи нет.
func (s *DealService) GetDeal(ctx context.Context, dealID string) (*domain.Deal, error) {
	if deal, found := s.cache.Get(ctx, dealID); found {
		s.log.Debugf(ctx, "cache hit for deal=%s", dealID)
		return deal, nil
	}
	s.log.Debugf(ctx, "cache miss for deal=%s", dealID)

	start := time.Now()
	deal, err := s.repo.GetByID(ctx, dealID)
	if err != nil {
		s.log.Errorf(ctx, "repo.GetByID failed deal_id=%s err=%v", dealID, err)
		return nil, err
	}

	if deal != nil {
		if setErr := s.cache.Set(ctx, deal); setErr != nil {
			s.log.Warnf(ctx, "cache.Set failed deal_id=%s err=%v", dealID, setErr)
		}
	}

	s.log.Debugf(ctx, "db fetch deal_id=%s took=%s", dealID, time.Since(start))
	return deal, nil
}

// CountDeals — число сохранённых сделок (для /health).
func (s *DealService) CountDeals(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// ImportFromMessage — импорт сделок из сообщения Kafka (объект или массив).
// Возвращаемая ошибка решает судьбу оффсета:
//   - nil или errors.Is(err, domain.ErrInvalidDeal) — сообщение обработано окончательно, коммитим;
//   - иначе (сбой хранилища хотя бы на одной сделке) — повторная обработка.
func (s *DealService) ImportFromMessage(ctx context.Context, raw []byte) error {
	reqs, err := validate.DecodeDealRequests(raw)
	if err != nil {
		s.log.Warnf(ctx, "invalid message err=%v", err)
		return fmt.Errorf("%w: %w", domain.ErrInvalidDeal, err)
	}

	_, err = s.importMany(ctx, metrics.ModeKafka, reqs)
	if err == nil {
		return nil
	}

	var batchErr *domain.BatchImportRejectedError
	if errors.As(err, &batchErr) && batchErr.StoreFailures > 0 {
		return fmt.Errorf("store failure on %d of %d deals", batchErr.StoreFailures, len(reqs))
	}
	return err
}

// WarmUpCache — прогрев кэша последними N сделками из хранилища.
// Если n <= 0, прогрев не выполняется (но это не ошибка).
func (s *DealService) WarmUpCache(ctx context.Context, n int) error {
	if n <= 0 {
		s.log.Warnf(ctx, "cache warm-up skipped: n <= 0 (n=%d)", n)
		return nil
	}

	start := time.Now()
	list, err := s.repo.LastN(ctx, n)
	if err != nil {
		s.log.Errorf(ctx, "repo.LastN failed n=%d err=%v", n, err)
		return err
	}
	if warmUpErr := s.cache.WarmUp(ctx, list); warmUpErr != nil {
		s.log.Warnf(ctx, "cache.WarmUp failed err=%v", warmUpErr)
	}
	s.log.Infof(ctx, "cache warmed with %d deals in %s", len(list), time.Since(start))
	return nil
}
