package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — параметры подписки на топик сделок.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first|last

	ProcessTimeout time.Duration // таймаут обработки одного сообщения
	RetryInitial   time.Duration // стартовый backoff при ошибках брокера
	RetryMax       time.Duration // потолок backoff
}

// ReaderConfig — kafka.ReaderConfig с ручным коммитом оффсетов.
// Брокеры очищаются от пробелов и пустых элементов ("k1:9092, ,k2:9092").
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:        cleanBrokers(c.Brokers),
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		StartOffset:    startOffset(c.StartOffset),
		CommitInterval: 0,
	}
}

// startOffset — "first" читает топик с начала; всё остальное — только новые сообщения.
func startOffset(s string) int64 {
	if strings.EqualFold(strings.TrimSpace(s), "first") {
		return kafka.FirstOffset
	}
	return kafka.LastOffset
}

func cleanBrokers(in []string) []string {
	out := make([]string, 0, len(in))
	for _, b := range in {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
