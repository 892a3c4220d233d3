package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/fx_deals/pkg/metrics"
)

// Метки операций кэша для metrics.CacheOps.
const (
	opHit     = "hit"
	opMiss    = "miss"
	opExpired = "expired"
	opEvicted = "evicted"
)

// expired — сделка лежит дольше TTL; нулевой expiresAt означает «без истечения».
func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// deadline — момент истечения записи, положенной в now.
func (c *LRUCacheTTL) deadline(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// drop — убирает элемент из списка и индекса, учитывая причину в метриках.
func (c *LRUCacheTTL) drop(elem *list.Element, op string) {
	if ent, ok := elem.Value.(*entry); ok {
		delete(c.index, ent.id)
	}
	c.ll.Remove(elem)
	metrics.CacheOps.WithLabelValues(op).Inc()
	metrics.CacheSize.Set(float64(len(c.index)))
}

// trim — сначала хвост с истёкшим TTL, затем LRU-вытеснение до capacity.
func (c *LRUCacheTTL) trim(now time.Time) {
	for back := c.ll.Back(); back != nil; back = c.ll.Back() {
		ent, ok := back.Value.(*entry)
		if ok && !ent.expired(now) {
			break
		}
		c.drop(back, opExpired)
	}
	for c.ll.Len() > c.capacity {
		c.drop(c.ll.Back(), opEvicted)
	}
}
