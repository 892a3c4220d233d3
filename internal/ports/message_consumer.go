package ports

import "context"

// MessageConsumer — фоновый источник сделок (Kafka); Run блокируется до отмены контекста.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
