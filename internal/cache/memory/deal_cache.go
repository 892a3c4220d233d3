package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
	"github.com/Gunvolt24/fx_deals/pkg/metrics"
)

// Проверка, что LRUCacheTTL удовлетворяет интерфейсу DealCache.
var _ ports.DealCache = (*LRUCacheTTL)(nil)

type entry struct {
	id        string
	deal      *domain.Deal
	expiresAt time.Time
}

// LRUCacheTTL — LRU-кэш сделок с TTL (скользящим: продлевается при попадании).
type LRUCacheTTL struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

// NewLRUCacheTTL — capacity <= 0 трактуется как 1; ttl <= 0 — без истечения.
func NewLRUCacheTTL(capacity int, ttl time.Duration) *LRUCacheTTL {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCacheTTL{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get — копия сделки по dealId; попадание продлевает TTL и поднимает запись в голову.
func (c *LRUCacheTTL) Get(_ context.Context, id string) (*domain.Deal, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[id]
	if !ok {
		metrics.CacheOps.WithLabelValues(opMiss).Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if ent.expired(now) {
		c.drop(elem, opExpired)
		return nil, false
	}

	ent.expiresAt = c.deadline(now)
	c.ll.MoveToFront(elem)
	metrics.CacheOps.WithLabelValues(opHit).Inc()
	return ent.deal.Clone(), true
}

// Set — кладёт копию сделки; сделки без dealId не кэшируются.
func (c *LRUCacheTTL) Set(_ context.Context, deal *domain.Deal) error {
	if deal == nil || deal.DealID == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[deal.DealID]; ok {
		ent := elem.Value.(*entry)
		ent.deal = deal.Clone()
		ent.expiresAt = c.deadline(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.index[deal.DealID] = c.ll.PushFront(&entry{
		id:        deal.DealID,
		deal:      deal.Clone(),
		expiresAt: c.deadline(now),
	})
	c.trim(now)
	metrics.CacheSize.Set(float64(len(c.index)))
	return nil
}

// WarmUp — deals приходят новыми первыми (как LastN), поэтому грузим с конца:
// самая свежая сделка окажется в голове списка.
func (c *LRUCacheTTL) WarmUp(ctx context.Context, deals []*domain.Deal) error {
	for i := len(deals) - 1; i >= 0; i-- {
		if err := c.Set(ctx, deals[i]); err != nil {
			return err
		}
	}
	return nil
}

// Len — текущее число элементов.
func (c *LRUCacheTTL) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
