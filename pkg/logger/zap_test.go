package logger_test

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Gunvolt24/fx_deals/pkg/ctxmeta"
	"github.com/Gunvolt24/fx_deals/pkg/logger"
)

func newObserved() (*logger.ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}

func TestZapLogger_EnrichesWithRequestAndDealID(t *testing.T) {
	l, logs := newObserved()

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	ctx = ctxmeta.WithDealID(ctx, "DEAL-001")
	l.Warnf(ctx, "deal rejected reasons=%v", []string{"x"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["deal_id"] != "DEAL-001" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("want warn level, got %s", entries[0].Level)
	}
}

func TestZapLogger_NoMetadata_NoFields(t *testing.T) {
	l, logs := newObserved()

	l.Debugf(context.Background(), "cache miss for deal=%s", "D1")
	l.Infof(nil, "started")

	for _, e := range logs.All() {
		if len(e.Context) != 0 {
			t.Fatalf("unexpected fields: %v", e.ContextMap())
		}
	}
	if logs.Len() != 2 {
		t.Fatalf("want 2 entries, got %d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "cache miss for deal=D1" {
		t.Fatalf("unexpected message: %q", got)
	}
}
