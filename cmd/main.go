// Command fcbot runs the Mark Six notification bot: it keeps the draw
// store in sync with the upstream API, scores and predicts the next
// period, serves the Telegram chat surface and exposes the operational
// HTTP endpoints.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/adapters/http/api"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/http/swagger"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/mq/queue"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/mq/worker"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/repository"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/source"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/telegram"
	service "github.com/liemgreggy-glitch/fcbot/internal/app"
	"github.com/liemgreggy-glitch/fcbot/internal/config"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/dedupe"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/engine"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Write to stderr directly since the logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get().Named("main")

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn(ctx, "unknown timezone; using the draw schedule default",
			logger.String("timezone", cfg.Timezone), logger.Error(err))
		loc = model.DrawLocation()
	}

	store, err := repository.New(ctx, cfg.DBPath)
	if err != nil {
		os.Stderr.WriteString("failed to open store: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error(ctx, "store close failed", logger.Error(err))
		}
	}()

	eng := engine.New(store, store)

	src := source.New(
		cfg.SourceBaseURL,
		cfg.HistoryBaseURL,
		source.WithTimeout(time.Duration(cfg.SourceTimeoutMS)*time.Millisecond),
		source.WithLocation(loc),
	)

	q := queue.NewInMemoryQueue(queue.WithCapacity(cfg.QueueSize))

	// Without a token the chat surface stays off and the sink sender
	// drops whatever reaches the queue.
	var bot *telegram.Bot
	var sender worker.Sender = sinkSender{}
	if cfg.TelegramToken != "" {
		bot, err = telegram.New(
			cfg.TelegramToken,
			store,
			eng,
			telegram.WithTopN(cfg.TopN),
			telegram.WithLocation(loc),
		)
		if err != nil {
			os.Stderr.WriteString("failed to connect telegram: " + err.Error() + "\n")
			return
		}
		sender = telegram.NewNotifier(bot)
	} else {
		log.Warn(ctx, "telegram_token is empty; chat surface disabled")
	}

	pool := worker.NewPool(cfg.WorkerCount, q, sender)
	pool.Start(ctx)

	svc := service.New(
		store,
		src,
		eng,
		q,
		service.WithTopN(cfg.TopN),
		service.WithSyncYears(cfg.SyncYears),
		service.WithLocation(loc),
		service.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.DedupeSize))),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}

	if bot != nil {
		bot.Start(ctx)
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Serve the API reference under /api-docs.
	swagger.Register(ctx, mux)

	// Register the operational API routes.
	api.NewServer(store).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	// Stop producing before draining: cron first, then the queue.
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}

	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "worker shutdown failed", logger.Error(err))
	}

	if bot != nil {
		if err := bot.Stop(shutdownCtx); err != nil {
			log.Error(ctx, "bot shutdown failed", logger.Error(err))
		}
	}

	log.Info(ctx, "stopped")
}

// sinkSender stands in for the Telegram notifier when no token is
// configured.
type sinkSender struct{}

func (sinkSender) Send(ctx context.Context, n worker.Notification) error {
	logger.Get().Named("sink").Debug(ctx, "discarding notification",
		logger.Int64("chat_id", n.ChatID),
		logger.String("kind", string(n.Kind)))
	return nil
}
