package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Gunvolt24/fx_deals/internal/cache/memory"
	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports/mocks"
	memrepo "github.com/Gunvolt24/fx_deals/internal/repo/memory"
	"github.com/Gunvolt24/fx_deals/internal/usecase"
	"github.com/Gunvolt24/fx_deals/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

const dealID = "DEAL-001"

type noopLogger struct{}

func (noopLogger) Debugf(context.Context, string, ...any) {}
func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func request(id, from, to, ts, amount string) domain.DealRequest {
	return domain.DealRequest{DealID: id, FromCurrency: from, ToCurrency: to, DealTimestamp: ts, DealAmount: amount}
}

func validRequest() domain.DealRequest {
	return request(dealID, "USD", "EUR", "2024-11-16 10:30:00", "1000.50")
}

// newRealService — сервис на хранилище и кэше в памяти с настоящим валидатором.
func newRealService() (*usecase.DealService, *memrepo.DealRepository) {
	repo := memrepo.NewDealRepository()
	svc := usecase.NewDealService(repo, memory.NewLRUCacheTTL(16, time.Minute), noopLogger{}, validate.NewDealValidator())
	return svc, repo
}

func TestImportOne_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)
	validator := mocks.NewMockDealValidator(ctrl)

	req := validRequest()
	saved := &domain.Deal{DealID: dealID}

	gomock.InOrder(
		validator.EXPECT().Validate(gomock.Any(), &req, repo).Return(nil, nil),
		repo.EXPECT().Save(gomock.Any(), gomock.AssignableToTypeOf(&domain.Deal{})).Return(saved, nil),
		cache.EXPECT().Set(gomock.Any(), saved).Return(nil),
	)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validator)

	got, err := svc.ImportOne(context.Background(), &req)
	if err != nil || got != saved {
		t.Fatalf("expected saved deal, got %+v err=%v", got, err)
	}
}

func TestImportOne_Rejected_NoWrite(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)
	validator := mocks.NewMockDealValidator(ctrl)

	req := validRequest()
	req.DealAmount = "invalid-amount"

	validator.EXPECT().Validate(gomock.Any(), &req, repo).Return([]string{validate.MsgAmountFormat}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validator)

	_, err := svc.ImportOne(context.Background(), &req)
	var rejected *domain.SingleImportRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("want SingleImportRejectedError, got %v", err)
	}
	if rejected.Rejected.DealID != dealID || !reflect.DeepEqual(rejected.Rejected.ValidationMsgs, []string{validate.MsgAmountFormat}) {
		t.Fatalf("unexpected rejection: %+v", rejected.Rejected)
	}
	if !errors.Is(err, domain.ErrInvalidDeal) {
		t.Fatalf("rejection must match ErrInvalidDeal")
	}
}

func TestImportOne_StoreFailure_IsNotRejection(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)

	req := validRequest()

	repo.EXPECT().Exists(gomock.Any(), dealID).Return(false, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDealExists)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validate.NewDealValidator())

	_, err := svc.ImportOne(context.Background(), &req)
	if err == nil || errors.Is(err, domain.ErrInvalidDeal) {
		t.Fatalf("store failure must not look like a validation rejection, got %v", err)
	}
	if !errors.Is(err, domain.ErrDealExists) {
		t.Fatalf("want wrapped ErrDealExists, got %v", err)
	}
}

func TestImportOne_ExistsLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)
	boom := errors.New("connection reset")

	req := validRequest()
	repo.EXPECT().Exists(gomock.Any(), dealID).Return(false, boom)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validate.NewDealValidator())

	_, err := svc.ImportOne(context.Background(), &req)
	if !errors.Is(err, boom) || errors.Is(err, domain.ErrInvalidDeal) {
		t.Fatalf("want wrapped lookup error, got %v", err)
	}
}

func TestImportOne_SameIDTwice(t *testing.T) {
	svc, repo := newRealService()
	ctx := context.Background()

	first := validRequest()
	if _, err := svc.ImportOne(ctx, &first); err != nil {
		t.Fatalf("first import: %v", err)
	}

	second := request(dealID, "GBP", "JPY", "2024-11-16 11:00:00", "5")
	_, err := svc.ImportOne(ctx, &second)
	var rejected *domain.SingleImportRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("want SingleImportRejectedError, got %v", err)
	}
	if !reflect.DeepEqual(rejected.Rejected.ValidationMsgs, []string{"Deal with id DEAL-001 already exists"}) {
		t.Fatalf("unexpected messages: %v", rejected.Rejected.ValidationMsgs)
	}

	stored, _ := repo.GetByID(ctx, dealID)
	if stored.FromCurrency != "USD" || domain.FormatAmount(stored.DealAmount) != "1000.50" {
		t.Fatalf("first record must stay unchanged, got %+v", stored)
	}
}

func TestImportOne_BlankRequiredFields_NoWrite(t *testing.T) {
	svc, repo := newRealService()
	ctx := context.Background()

	blanks := map[string]func(r *domain.DealRequest){
		validate.MsgDealIDRequired:       func(r *domain.DealRequest) { r.DealID = " " },
		validate.MsgFromCurrencyRequired: func(r *domain.DealRequest) { r.FromCurrency = "" },
		validate.MsgToCurrencyRequired:   func(r *domain.DealRequest) { r.ToCurrency = "" },
		validate.MsgTimestampRequired:    func(r *domain.DealRequest) { r.DealTimestamp = "" },
		validate.MsgAmountRequired:       func(r *domain.DealRequest) { r.DealAmount = "" },
	}
	for msg, blank := range blanks {
		req := validRequest()
		blank(&req)
		_, err := svc.ImportOne(ctx, &req)
		var rejected *domain.SingleImportRejectedError
		if !errors.As(err, &rejected) {
			t.Fatalf("%s: want rejection, got %v", msg, err)
		}
		found := false
		for _, m := range rejected.Rejected.ValidationMsgs {
			found = found || m == msg
		}
		if !found {
			t.Fatalf("%s: missing in %v", msg, rejected.Rejected.ValidationMsgs)
		}
	}

	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("no deal may be stored, got %d", n)
	}
}

func TestImportMany_AllValid(t *testing.T) {
	svc, _ := newRealService()

	reqs := []domain.DealRequest{
		request("D1", "USD", "EUR", "2024-11-16 10:00:00", "1500.00"),
		request("D2", "GBP", "JPY", "2024-11-16 11:00:00", "2500.00"),
	}
	saved, err := svc.ImportMany(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 2 || saved[0].DealID != "D1" || saved[1].DealID != "D2" {
		t.Fatalf("unexpected saved deals: %+v", saved)
	}
}

func TestImportMany_IntraBatchDuplicate(t *testing.T) {
	svc, repo := newRealService()
	ctx := context.Background()

	reqs := []domain.DealRequest{
		request("D1", "USD", "EUR", "2024-11-16 10:00:00", "1500.00"),
		request("D1", "GBP", "JPY", "2024-11-16 11:00:00", "2500.00"),
	}
	saved, err := svc.ImportMany(ctx, reqs)

	var batchErr *domain.BatchImportRejectedError
	if !errors.As(err, &batchErr) {
		t.Fatalf("want BatchImportRejectedError, got %v", err)
	}
	if len(saved) != 1 || len(batchErr.Accepted) != 1 || batchErr.Accepted[0].FromCurrency != "USD" {
		t.Fatalf("first D1 must be accepted, got %+v", batchErr.Accepted)
	}
	want := []domain.RejectedDeal{{DealID: "D1", ValidationMsgs: []string{"Deal with id D1 already exists"}}}
	if !reflect.DeepEqual(batchErr.Rejected, want) {
		t.Fatalf("got %+v, want %+v", batchErr.Rejected, want)
	}
	if batchErr.StoreFailures != 0 {
		t.Fatalf("duplicate is a rule rejection, not a store failure")
	}

	stored, _ := repo.GetByID(ctx, "D1")
	if stored.FromCurrency != "USD" || !stored.DealAmount.Equal(decimal.RequireFromString("1500")) {
		t.Fatalf("unexpected stored deal: %+v", stored)
	}
}

func TestImportMany_PartitionInvariant(t *testing.T) {
	svc, repo := newRealService()
	ctx := context.Background()

	reqs := []domain.DealRequest{
		request("A", "USD", "EUR", "2024-11-16 10:00:00", "1"),
		request("B", "usd", "EUR", "2024-11-16 10:00:00", "1"),
		request("", "USD", "EUR", "2024-11-16 10:00:00", "1"),
		request("C", "USD", "EUR", "2024-11-16T10:00:00", "1"),
		request("D", "CHF", "JPY", "2024-02-29 10:00:00", "1.5E3"),
		request("A", "USD", "EUR", "2024-11-16 10:00:00", "1"),
		request("E", "USD", "EUR", "2024-11-16 10:00:00", "0"),
	}
	saved, err := svc.ImportMany(ctx, reqs)

	var batchErr *domain.BatchImportRejectedError
	if !errors.As(err, &batchErr) {
		t.Fatalf("want BatchImportRejectedError, got %v", err)
	}
	if len(batchErr.Accepted)+len(batchErr.Rejected) != len(reqs) {
		t.Fatalf("partition broken: %d + %d != %d", len(batchErr.Accepted), len(batchErr.Rejected), len(reqs))
	}

	seen := map[string]bool{}
	for _, d := range saved {
		if seen[d.DealID] {
			t.Fatalf("duplicate accepted id %s", d.DealID)
		}
		seen[d.DealID] = true
	}
	if len(saved) != 2 || saved[0].DealID != "A" || saved[1].DealID != "D" {
		t.Fatalf("unexpected accepted: %+v", saved)
	}

	gotRejected := make([]string, 0, len(batchErr.Rejected))
	for _, r := range batchErr.Rejected {
		gotRejected = append(gotRejected, r.DealID)
	}
	if !reflect.DeepEqual(gotRejected, []string{"B", "", "C", "A", "E"}) {
		t.Fatalf("rejected order must follow input: %v", gotRejected)
	}

	if n, _ := repo.Count(ctx); n != 2 {
		t.Fatalf("accepted deals must be persisted, count=%d", n)
	}
}

func TestImportMany_StoreFailureContinuesBatch(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)

	repo.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil).Times(3)
	gomock.InOrder(
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *domain.Deal) (*domain.Deal, error) { return d, nil }),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, errors.New("disk full")),
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDealExists),
	)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validate.NewDealValidator())

	reqs := []domain.DealRequest{
		request("D1", "USD", "EUR", "2024-11-16 10:00:00", "1"),
		request("D2", "USD", "EUR", "2024-11-16 10:00:00", "2"),
		request("D3", "USD", "EUR", "2024-11-16 10:00:00", "3"),
	}
	_, err := svc.ImportMany(context.Background(), reqs)

	var batchErr *domain.BatchImportRejectedError
	if !errors.As(err, &batchErr) {
		t.Fatalf("want BatchImportRejectedError, got %v", err)
	}
	if len(batchErr.Accepted) != 1 || batchErr.StoreFailures != 2 {
		t.Fatalf("unexpected result: accepted=%d storeFailures=%d", len(batchErr.Accepted), batchErr.StoreFailures)
	}
	want := []domain.RejectedDeal{
		{DealID: "D2", ValidationMsgs: []string{usecase.MsgStoreFailure}},
		{DealID: "D3", ValidationMsgs: []string{usecase.MsgStoreDuplicate}},
	}
	if !reflect.DeepEqual(batchErr.Rejected, want) {
		t.Fatalf("got %+v, want %+v", batchErr.Rejected, want)
	}
}

func TestListAll_Idempotent(t *testing.T) {
	svc, _ := newRealService()
	ctx := context.Background()

	_, _ = svc.ImportMany(ctx, []domain.DealRequest{
		request("D1", "USD", "EUR", "2024-11-16 10:00:00", "1"),
		request("D2", "GBP", "JPY", "2024-11-16 10:00:00", "2"),
	})

	first, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	second, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(first, second) || len(first) != 2 {
		t.Fatalf("ListAll must be stable: %+v vs %+v", first, second)
	}
}

func TestListAll_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	boom := errors.New("boom")
	repo.EXPECT().FindAll(gomock.Any()).Return(nil, boom)

	svc := usecase.NewDealService(repo, mocks.NewMockDealCache(ctrl), noopLogger{}, mocks.NewMockDealValidator(ctrl))
	if _, err := svc.ListAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestGetDeal_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)
	validator := mocks.NewMockDealValidator(ctrl)

	d := &domain.Deal{DealID: dealID}
	cache.EXPECT().Get(gomock.Any(), dealID).Return(d, true)
	repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validator)

	got, err := svc.GetDeal(context.Background(), dealID)
	if err != nil || got == nil || got.DealID != dealID {
		t.Fatalf("expected hit, got err=%v, deal=%+v", err, got)
	}
}

func TestGetDeal_CacheMiss_FetchAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)
	validator := mocks.NewMockDealValidator(ctrl)

	d := &domain.Deal{DealID: dealID}

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), dealID).Return(nil, false),
		repo.EXPECT().GetByID(gomock.Any(), dealID).Return(d, nil),
		cache.EXPECT().Set(gomock.Any(), d),
	)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validator)

	got, err := svc.GetDeal(context.Background(), dealID)
	if err != nil || got == nil || got.DealID != dealID {
		t.Fatalf("expected miss, got err=%v, deal=%+v", err, got)
	}
}

func TestGetDeal_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), "nope").Return(nil, false)
	repo.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, mocks.NewMockDealValidator(ctrl))

	got, err := svc.GetDeal(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got %+v err=%v", got, err)
	}
}

func TestImportFromMessage_InvalidJson(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewDealService(repo, mocks.NewMockDealCache(ctrl), noopLogger{}, mocks.NewMockDealValidator(ctrl))

	err := svc.ImportFromMessage(context.Background(), []byte("{"))
	if !errors.Is(err, domain.ErrInvalidDeal) || !errors.Is(err, validate.ErrInvalidJSON) {
		t.Fatalf("want ErrInvalidDeal wrapping ErrInvalidJSON, got %v", err)
	}
}

func TestImportFromMessage_ObjectAndArray(t *testing.T) {
	svc, repo := newRealService()
	ctx := context.Background()

	one, _ := json.Marshal(request("K1", "USD", "EUR", "2024-11-16 10:00:00", "1"))
	if err := svc.ImportFromMessage(ctx, one); err != nil {
		t.Fatalf("object: %v", err)
	}

	many, _ := json.Marshal([]domain.DealRequest{
		request("K2", "USD", "EUR", "2024-11-16 10:00:00", "1"),
		request("K3", "USD", "EUR", "2024-11-16 10:00:00", "1"),
	})
	if err := svc.ImportFromMessage(ctx, many); err != nil {
		t.Fatalf("array: %v", err)
	}

	if n, _ := repo.Count(ctx); n != 3 {
		t.Fatalf("expected 3 deals, got %d", n)
	}
}

func TestImportFromMessage_RejectedIsFinal(t *testing.T) {
	svc, _ := newRealService()

	raw, _ := json.Marshal(request("K1", "USD", "USD", "2024-11-16 10:00:00", "1"))
	err := svc.ImportFromMessage(context.Background(), raw)
	if !errors.Is(err, domain.ErrInvalidDeal) {
		t.Fatalf("rule rejection must match ErrInvalidDeal, got %v", err)
	}
}

func TestImportFromMessage_StoreFailureIsRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)

	repo.EXPECT().Exists(gomock.Any(), "K1").Return(false, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	svc := usecase.NewDealService(repo, cache, noopLogger{}, validate.NewDealValidator())

	raw, _ := json.Marshal(request("K1", "USD", "EUR", "2024-11-16 10:00:00", "1"))
	err := svc.ImportFromMessage(context.Background(), raw)
	if err == nil || errors.Is(err, domain.ErrInvalidDeal) {
		t.Fatalf("store failure must be retryable, got %v", err)
	}
}

func TestWarmUpCache(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	cache := mocks.NewMockDealCache(ctrl)

	list := []*domain.Deal{{DealID: "D2"}, {DealID: "D1"}}
	gomock.InOrder(
		repo.EXPECT().LastN(gomock.Any(), 2).Return(list, nil),
		cache.EXPECT().WarmUp(gomock.Any(), list).Return(nil),
	)

	svc := usecase.NewDealService(repo, cache, noopLogger{}, mocks.NewMockDealValidator(ctrl))

	if err := svc.WarmUpCache(context.Background(), 2); err != nil {
		t.Fatalf("warm up: %v", err)
	}
	if err := svc.WarmUpCache(context.Background(), 0); err != nil {
		t.Fatalf("n=0 must be a no-op, got %v", err)
	}
}

func TestCountDeals(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockDealRepository(ctrl)
	repo.EXPECT().Count(gomock.Any()).Return(int64(7), nil)

	svc := usecase.NewDealService(repo, mocks.NewMockDealCache(ctrl), noopLogger{}, mocks.NewMockDealValidator(ctrl))

	n, err := svc.CountDeals(context.Background())
	if err != nil || n != 7 {
		t.Fatalf("got %d err=%v", n, err)
	}
}

func TestRecentDeals_NewestFirst(t *testing.T) {
	svc, _ := newRealService()
	ctx := context.Background()

	_, _ = svc.ImportMany(ctx, []domain.DealRequest{
		request("D1", "USD", "EUR", "2024-11-16 10:00:00", "1"),
		request("D2", "GBP", "JPY", "2024-11-16 10:00:00", "2"),
		request("D3", "CHF", "AED", "2024-11-16 10:00:00", "3"),
	})

	got, err := svc.RecentDeals(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 || got[0].DealID != "D3" || got[1].DealID != "D2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}
