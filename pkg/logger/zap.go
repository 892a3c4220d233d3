package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/Gunvolt24/fx_deals/pkg/ctxmeta"
)

// ZapLogger — реализация ports.Logger поверх zap.
// Каждая запись дополняется request_id, deal_id и trace_id из контекста (если они есть).
type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	isProd bool
}

// NewZapLogger — production (JSON, Info+) или development (консоль, Debug+) конфигурация.
// Возвращает cleanup для Sync при остановке.
func NewZapLogger(isProd bool) (*ZapLogger, func() error, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if isProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, nil, err
	}

	return wrap(logger, isProd)
}

// NewFromZap — обёртка над готовым *zap.Logger (тесты, observer).
func NewFromZap(logger *zap.Logger) *ZapLogger {
	z, _, _ := wrap(logger, false)
	return z
}

func wrap(logger *zap.Logger, isProd bool) (*ZapLogger, func() error, error) {
	loggerWrap := &ZapLogger{
		base:   logger,
		sugar:  logger.Sugar(),
		isProd: isProd,
	}

	cleanup := func() error { return loggerWrap.base.Sync() }
	return loggerWrap, cleanup, nil
}

func (z *ZapLogger) Debugf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Debugf(format, args...)
}
func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.with(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Errorf(format, args...)
}

func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }

// with — логгер с метаданными запроса.
func (z *ZapLogger) with(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return z.sugar
	}

	fields := make([]any, 0, 8)
	if id, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", id)
	}
	if id, ok := ctxmeta.DealIDFromContext(ctx); ok {
		fields = append(fields, "deal_id", id)
	}
	if id, ok := ctxmeta.TraceIDFromContext(ctx); ok {
		fields = append(fields, "trace_id", id)
	}
	if id, ok := ctxmeta.SpanIDFromContext(ctx); ok {
		fields = append(fields, "span_id", id)
	}

	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}
