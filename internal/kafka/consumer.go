package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/fx_deals/internal/ports"
	"github.com/Gunvolt24/fx_deals/pkg/metrics"
)

// Проверка, что Consumer удовлетворяет порту MessageConsumer.
var _ ports.MessageConsumer = (*Consumer)(nil)

const (
	defaultProcessTimeout = 5 * time.Second
	defaultRetryInitial   = time.Second
	defaultRetryMax       = 30 * time.Second
)

// reader — то, что консьюмеру нужно от kafka.Reader.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// messageImporter — импорт сделок из тела сообщения (объект или массив).
// Ошибка, совпадающая с domain.ErrInvalidDeal, означает окончательный отказ.
type messageImporter interface {
	ImportFromMessage(ctx context.Context, raw []byte) error
}

// Consumer — читает топик со сделками и отдаёт каждое сообщение в импорт.
// Оффсет коммитится вручную и только когда судьба сообщения решена.
type Consumer struct {
	reader         reader
	service        messageImporter
	log            ports.Logger
	processTimeout time.Duration
	retry          *backoff
	closeOnce      sync.Once
}

// NewConsumer — консьюмер поверх kafka.Reader с ручным коммитом оффсетов.
func NewConsumer(cfg *ConsumerConfig, service messageImporter, log ports.Logger) *Consumer {
	return &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		service:        service,
		log:            log,
		processTimeout: orDefault(cfg.ProcessTimeout, defaultProcessTimeout),
		retry: newBackoff(
			orDefault(cfg.RetryInitial, defaultRetryInitial),
			orDefault(cfg.RetryMax, defaultRetryMax),
			rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // джиттер, не криптография
		),
	}
}

// Run — цикл до отмены контекста.
// Ошибки брокера повторяются с экспоненциальным backoff. Сообщение со сбоем хранилища
// обрабатывается повторно, пока не будет импортировано или отклонено; следующее читается только после коммита.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wait := c.retry.next()
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", err, wait)
			if !sleepCtx(ctx, wait) {
				return ctx.Err()
			}
			continue
		}
		c.retry.reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if !c.settle(ctx, rc.Topic, &msg) {
			return ctx.Err()
		}
	}
}

// Close — закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (err error) {
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
