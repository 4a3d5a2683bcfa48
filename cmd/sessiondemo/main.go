// Command sessiondemo runs several simulated tabs that share one session
// store and prints the events they capture.
//
// Every tab has its own window id and idle timer; the session id is shared
// through the configured store (memory, file or redis). Run two instances
// against the same file or Redis hash to see them join one session.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/analyticskit/pkg/capture"
	"github.com/dmitrymomot/analyticskit/pkg/config"
	"github.com/dmitrymomot/analyticskit/pkg/lifecycle"
	"github.com/dmitrymomot/analyticskit/pkg/logger"
	"github.com/dmitrymomot/analyticskit/pkg/persistence"
	"github.com/dmitrymomot/analyticskit/pkg/sessionid"
	"github.com/dmitrymomot/analyticskit/pkg/sessionprops"
)

type appConfig struct {
	Session sessionid.Config
	Log     logger.Config
	Redis   persistence.RedisConfig

	Persistence     string `env:"PERSISTENCE" envDefault:"memory"`
	PersistenceFile string `env:"PERSISTENCE_FILE" envDefault:"analyticskit.json"`

	Tabs          int           `env:"DEMO_TABS" envDefault:"2"`
	EventInterval time.Duration `env:"DEMO_EVENT_INTERVAL" envDefault:"5s"`
	PageURL       string        `env:"DEMO_PAGE_URL" envDefault:"https://example.com/?utm_source=sessiondemo"`
	Referrer      string        `env:"DEMO_REFERRER"`
	UserAgent     string        `env:"DEMO_USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
}

var errUnknownPersistence = errors.New("sessiondemo.unknown_persistence")

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.FromConfig(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	logger.SetAsDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hooks := lifecycle.New()
	// registered first, so it runs after every tab's unload hook
	hooks.OnUnload(cancel)
	stop := lifecycle.NotifyOnSignal(ctx, hooks)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	log.Info("starting session demo",
		slog.String("persistence", cfg.Persistence),
		slog.Int("tabs", cfg.Tabs),
		logger.Duration(cfg.EventInterval))

	g, ctx := errgroup.WithContext(ctx)
	for i := range max(cfg.Tabs, 1) {
		g.Go(func() error {
			return runTab(ctx, i, cfg, store, hooks, log)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("session demo stopped")
	return nil
}

func openStore(ctx context.Context, cfg appConfig) (persistence.Store, func(), error) {
	switch cfg.Persistence {
	case "memory":
		return persistence.NewMemoryStore(), func() {}, nil
	case "file":
		return persistence.NewFileStore(cfg.PersistenceFile), func() {}, nil
	case "redis":
		client, err := persistence.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return persistence.NewRedisStoreFromConfig(client, cfg.Redis), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnknownPersistence, cfg.Persistence)
	}
}

// runTab simulates one browser tab: a page view, then periodic clicks, with
// a read-only visibility ping in between that must not extend the session.
func runTab(ctx context.Context, n int, cfg appConfig, store persistence.Store, hooks *lifecycle.Hooks, log *slog.Logger) error {
	tabLog := log.With(slog.Int("tab", n))

	sessions := sessionid.NewFromConfig(store, cfg.Session,
		sessionid.WithTabStore(persistence.NewMemoryTabStore()),
		sessionid.WithLogger(tabLog),
		sessionid.WithLifecycle(hooks),
	)
	defer sessions.Destroy()

	sessions.OnForcedIdleReset(func() {
		tabLog.Info("session expired while idle")
	})
	sessions.OnSessionID(func(sessionID, windowID string, reason *sessionid.ChangeReason) {
		if reason == nil {
			return
		}
		tabLog.Info("session started",
			logger.SessionID(sessionID),
			logger.WindowID(windowID),
			logger.Reasons(reason.Map()))
	})

	entry := sessionprops.New(store, sessions,
		sessionprops.FromURL(cfg.PageURL, cfg.Referrer),
		sessionprops.WithLogger(tabLog),
		sessionprops.WithTimeout(cfg.Session.StoreTimeout),
	)
	defer entry.Close()

	client := capture.New(sessions, capture.NewLogTransport(tabLog, slog.LevelInfo),
		capture.WithEntryProperties(entry),
		capture.WithUserAgent(cfg.UserAgent),
		capture.WithSuperProperties(map[string]any{"demo_tab": n}),
		capture.WithLogger(tabLog),
	)

	if _, err := client.Capture(ctx, "$pageview", map[string]any{"$current_url": cfg.PageURL}); err != nil {
		return err
	}

	ticker := time.NewTicker(cfg.EventInterval)
	defer ticker.Stop()

	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		var err error
		if tick%3 == 0 {
			_, err = client.Capture(ctx, "$visibility_ping", nil, capture.ReadOnly())
		} else {
			_, err = client.Capture(ctx, "click", map[string]any{"tick": tick})
		}
		if err != nil {
			return err
		}
	}
}
