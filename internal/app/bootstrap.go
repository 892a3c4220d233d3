package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Gunvolt24/fx_deals/config"
	cachemem "github.com/Gunvolt24/fx_deals/internal/cache/memory"
	"github.com/Gunvolt24/fx_deals/internal/kafka"
	"github.com/Gunvolt24/fx_deals/internal/ports"
	memrepo "github.com/Gunvolt24/fx_deals/internal/repo/memory"
	"github.com/Gunvolt24/fx_deals/internal/repo/postgres"
	rest "github.com/Gunvolt24/fx_deals/internal/transport/http"
	"github.com/Gunvolt24/fx_deals/internal/usecase"
	"github.com/Gunvolt24/fx_deals/pkg/logger"
	"github.com/Gunvolt24/fx_deals/pkg/metrics"
	"github.com/Gunvolt24/fx_deals/pkg/telemetry"
	"github.com/Gunvolt24/fx_deals/pkg/validate"
)

const defaultGracefulTimeout = 5 * time.Second

// App — собранный сервис сделок: HTTP API и, при включённой Kafka, консьюмер.
type App struct {
	Logger          ports.Logger
	HTTPServer      *http.Server
	KafkaConsumer   ports.MessageConsumer // nil, если Kafka выключена
	gracefulTimeout time.Duration
}

// Cleanup — освобождение ресурсов, собранных Bootstrap.
type Cleanup func()

// closers — стек освобождения ресурсов; выполняется в обратном порядке.
type closers []func()

func (cs *closers) push(fn func()) { *cs = append(*cs, fn) }

func (cs closers) run() {
	for i := len(cs) - 1; i >= 0; i-- {
		cs[i]()
	}
}

// Bootstrap — собирает сервис по конфигурации.
// При ошибке уже открытые ресурсы закрываются, а возвращаемый Cleanup пустой.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, syncLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	var cs closers
	cs.push(func() { _ = syncLogger() })

	metrics.MustRegister()

	dealRepo, closeRepo, err := newRepository(ctx, cfg, logg)
	if err != nil {
		cs.run()
		return nil, func() {}, err
	}
	cs.push(closeRepo)

	if shutdown := setupTracing(ctx, cfg.Tracing, logg); shutdown != nil {
		cs.push(func() {
			if err := shutdown(context.Background()); err != nil {
				logg.Warnf(ctx, "shutdown tracing: %v", err)
			}
		})
	}

	dealService := usecase.NewDealService(
		dealRepo,
		cachemem.NewLRUCacheTTL(cfg.Cache.Capacity, cfg.Cache.TTL),
		logg,
		validate.NewDealValidator(),
	)
	if cfg.Cache.WarmUpN > 0 {
		if err := dealService.WarmUpCache(ctx, cfg.Cache.WarmUpN); err != nil {
			logg.Warnf(ctx, "warm-up cache failed: %v", err)
		}
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      newHTTPServer(ctx, cfg, dealService, logg),
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			Topic:          cfg.Kafka.Topic,
			GroupID:        cfg.Kafka.GroupID,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, dealService, logg)
		app.KafkaConsumer = consumer
		cs.push(func() {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		})
	} else {
		logg.Infof(ctx, "kafka consumer disabled")
	}

	return app, cs.run, nil
}

// newRepository — хранилище сделок по драйверу и функция его закрытия.
func newRepository(ctx context.Context, cfg *config.Config, log ports.Logger) (ports.DealRepository, func(), error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warnf(ctx, "storage driver=memory: deals are lost on restart")
		return memrepo.NewDealRepository(), func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, postgres.WithMaxConns(cfg.Postgres.MaxConns))
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewDealRepository(pool), pool.Close, nil
}

// setupTracing — OTLP-трейсинг; nil, если он выключен или не поднялся (сервис работает без него).
func setupTracing(ctx context.Context, cfg config.Tracing, log ports.Logger) func(context.Context) error {
	if !cfg.Enabled {
		return nil
	}
	shutdown, err := telemetry.SetupTracing(ctx, telemetry.Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Endpoint:       cfg.Endpoint,
		SampleRatio:    cfg.SampleRatio,
	})
	if err != nil {
		log.Warnf(ctx, "failed to setup tracing: %v", err)
		return nil
	}
	log.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
		cfg.ServiceName, cfg.Endpoint, telemetry.ClampRatio(cfg.SampleRatio))
	return shutdown
}

// newHTTPServer — gin-роутер API сделок за http.Server с таймаутами из конфигурации.
func newHTTPServer(ctx context.Context, cfg *config.Config, svc ports.DealService, log ports.Logger) *http.Server {
	gin.SetMode(ginMode(ctx, cfg.HTTP.GinMode, log))

	otelService := ""
	if cfg.Tracing.Enabled {
		otelService = cfg.Tracing.ServiceName
	}
	router := rest.NewRouter(rest.NewHandler(svc, log, cfg.HTTP.HandlerTimeout), cfg.HTTP.StaticDir, otelService)

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
}

// ginMode — режим gin по строке конфигурации; неизвестное значение → debug с предупреждением.
func ginMode(ctx context.Context, mode string, log ports.Logger) string {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case gin.ReleaseMode, gin.TestMode, gin.DebugMode:
		return m
	case "":
		return gin.DebugMode
	default:
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
		return gin.DebugMode
	}
}

// Run — HTTP-сервер и консьюмер до отмены ctx или первой фоновой ошибки.
// Штатная остановка возвращает nil; ошибка запуска (например, занятый порт) возвращается как есть.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.KafkaConsumer != nil {
		g.Go(func() error {
			a.Logger.Infof(ctx, "kafka consumer starting")
			err := a.KafkaConsumer.Run(gctx)
			if gctx.Err() != nil && errors.Is(err, gctx.Err()) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.shutdown(ctx)
		return nil
	})

	err := g.Wait()
	if err != nil {
		a.Logger.Errorf(ctx, "service stopped with error: %v", err)
		return err
	}
	a.Logger.Infof(ctx, "service stopped")
	return nil
}

// shutdown — graceful-остановка HTTP и закрытие консьюмера.
func (a *App) shutdown(ctx context.Context) {
	a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")

	timeout := a.gracefulTimeout
	if timeout <= 0 {
		timeout = defaultGracefulTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}
}
