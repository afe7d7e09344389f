// Package server wires the corechat components together and runs them: it
// opens storage, builds the services and completion client, and serves the
// HTTP API until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/corechat/internal/dbx"
	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/completion"
	"github.com/dmitrijs2005/corechat/internal/server/config"
	"github.com/dmitrijs2005/corechat/internal/server/metrics"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/corechat/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/corechat/internal/server/rest"
	"github.com/dmitrijs2005/corechat/internal/server/services"
	"github.com/redis/go-redis/v9"
)

const (
	sessionStoreDatabase = "database"
	sessionStoreRedis    = "redis"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	deps      rest.Deps
	closers   []io.Closer
	logCloser io.Closer
}

// NewApp builds every component described by c. Resources opened along the
// way are released by Close.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, logCloser, err := logging.New(logging.Options{Format: c.LogFormat, Level: c.LogLevel, File: c.LogFile})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger, logCloser: logCloser}

	db, rm, err := repomanager.Open(ctx, c.StorageDriver, c.DatabaseDSN)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	var readiness []rest.Pinger
	if db != nil {
		app.closers = append(app.closers, db)
		readiness = append(readiness, db)
	}

	sessionRepo, pinger, err := app.sessionRepository(ctx, db, rm)
	if err != nil {
		app.Close()
		return nil, err
	}
	if pinger != nil {
		readiness = append(readiness, pinger)
	}

	collector := metrics.NewCollector("corechat")

	llm, err := completion.New(ctx, c, collector, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("completion init error: %w", err)
	}

	us, err := services.NewUserService(db, rm, c)
	if err != nil {
		app.Close()
		return nil, err
	}
	ss := services.NewSessionService(sessionRepo, c, logger)
	store := services.NewConversationStore(rm.Messages(dbx.Handle(db)))
	if err := store.SeedClock(ctx); err != nil {
		app.Close()
		return nil, err
	}
	cs := services.NewChatService(store, llm, c.SystemPrompt, logger)

	app.deps = rest.Deps{
		Accounts:       us,
		Sessions:       ss,
		Chat:           cs,
		Logger:         logger,
		CookieSecure:   c.CookieSecure,
		AllowedOrigins: c.AllowedOrigins,
		Metrics:        collector,
		Readiness:      readiness,
	}

	logger.Info(ctx, "App initialized",
		"storage", c.StorageDriver, "sessions", c.SessionStore, "completion", c.CompletionProvider)

	return app, nil
}

// sessionRepository picks where session records live. The returned Pinger
// is non-nil when the store is a separate dependency worth checking in /ready.
func (app *App) sessionRepository(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager) (sessions.Repository, rest.Pinger, error) {
	switch app.config.SessionStore {
	case sessionStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr, Password: app.config.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, client)
		ping := pingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
		return sessions.NewRedisRepository(client), ping, nil
	case sessionStoreDatabase, "":
		return rm.Sessions(dbx.Handle(db)), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", app.config.SessionStore)
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Close releases storage handles and flushes the logger.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
	if app.logCloser != nil {
		_ = app.logCloser.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewHTTPServer(app.config.HTTPAddr, rest.NewRouter(app.deps), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
