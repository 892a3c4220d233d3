package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/pkg/ctxmeta"
	"github.com/Gunvolt24/fx_deals/pkg/metrics"
)

// verdict — что делать с оффсетом после обработки.
type verdict int

const (
	commitOffset verdict = iota
	retryLater
)

// process — импорт одного сообщения с таймаутом.
// В контекст кладутся координаты сообщения и ключ (dealId продюсера), чтобы они попали в логи.
func (c *Consumer) process(ctx context.Context, topic string, msg *kafka.Message) verdict {
	ctx = ctxmeta.WithRequestID(ctx, fmt.Sprintf("%s/%d/%d", topic, msg.Partition, msg.Offset))
	if len(msg.Key) > 0 {
		ctx = ctxmeta.WithDealID(ctx, string(msg.Key))
	}

	importCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.ImportFromMessage(importCtx, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return commitOffset
	case errors.Is(err, domain.ErrInvalidDeal):
		// принятые сделки уже записаны, повтор результата не изменит
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "message rejected offset=%d: %v (skipped)", msg.Offset, err)
		return commitOffset
	default:
		// при повторе уже записанные сделки отсеет правило уникальности
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "message failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return retryLater
	}
}

// settle — повторяет импорт одного сообщения с backoff, пока его судьба не решена, затем коммитит.
// false — контекст отменён, оффсет не закоммичен.
func (c *Consumer) settle(ctx context.Context, topic string, msg *kafka.Message) bool {
	for attempt := 1; ; attempt++ {
		if c.process(ctx, topic, msg) == commitOffset {
			c.retry.reset()
			c.commit(ctx, msg)
			return true
		}
		wait := c.retry.next()
		c.log.Warnf(ctx, "retrying offset=%d attempt=%d in %s", msg.Offset, attempt, wait)
		if !sleepCtx(ctx, wait) {
			return false
		}
	}
}

// commit — ошибка коммита только логируется: сообщение придёт повторно.
func (c *Consumer) commit(ctx context.Context, msg *kafka.Message) {
	if err := c.reader.CommitMessages(ctx, *msg); err != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, err)
	}
}

// backoff — экспоненциальная задержка с equal-jitter: половина фиксирована, половина случайна.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
	rnd     *rand.Rand
}

func newBackoff(initial, maxDelay time.Duration, rnd *rand.Rand) *backoff {
	return &backoff{initial: initial, max: maxDelay, current: initial, rnd: rnd}
}

// next — задержка для текущей попытки; следующая вдвое больше, но не выше max.
func (b *backoff) next() time.Duration {
	d := b.jitter(b.current)
	b.current = min(b.current*2, b.max)
	return d
}

func (b *backoff) reset() { b.current = b.initial }

func (b *backoff) jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(b.rnd.Int63n(int64(d-half)+1))
}

// sleepCtx — false, если контекст отменён раньше.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
