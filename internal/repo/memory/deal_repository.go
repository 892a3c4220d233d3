package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
)

// Проверка, что DealRepository удовлетворяет интерфейсу DealRepository.
var _ ports.DealRepository = (*DealRepository)(nil)

// DealRepository — хранилище сделок в памяти процесса.
// Save атомарен (insert-if-absent под мьютексом); порядок FindAll — порядок записи.
type DealRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Deal
	order []string
}

// NewDealRepository — пустое хранилище.
func NewDealRepository() *DealRepository {
	return &DealRepository{byID: make(map[string]*domain.Deal)}
}

// Exists — есть ли сделка с таким dealId.
func (r *DealRepository) Exists(ctx context.Context, dealID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[dealID]
	return ok, nil
}

// Save — запись новой сделки; повторный dealId — domain.ErrDealExists.
func (r *DealRepository) Save(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deal == nil || deal.DealID == "" {
		return nil, errors.New("deal is empty or deal_id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[deal.DealID]; ok {
		return nil, fmt.Errorf("insert deal %q: %w", deal.DealID, domain.ErrDealExists)
	}
	r.byID[deal.DealID] = deal.Clone()
	r.order = append(r.order, deal.DealID)
	return deal.Clone(), nil
}

// GetByID — сделка по dealId. Если не нашли, возвращает (nil, nil).
func (r *DealRepository) GetByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[dealID].Clone(), nil
}

// FindAll — все сделки в порядке записи.
func (r *DealRepository) FindAll(ctx context.Context) ([]*domain.Deal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	deals := make([]*domain.Deal, 0, len(r.order))
	for _, id := range r.order {
		deals = append(deals, r.byID[id].Clone())
	}
	return deals, nil
}

// LastN — последние N записанных сделок, новые первыми.
func (r *DealRepository) LastN(ctx context.Context, n int) ([]*domain.Deal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	deals := make([]*domain.Deal, 0, n)
	for i := len(r.order) - 1; i >= 0 && len(deals) < n; i-- {
		deals = append(deals, r.byID[r.order[i]].Clone())
	}
	return deals, nil
}

// Count — число сделок.
func (r *DealRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}
