// Package app wires configuration into the site, option storage and the
// per-request registry, matcher and links.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dougwollison/index-pages/internal/cache"
	"github.com/dougwollison/index-pages/internal/cli/config"
	"github.com/dougwollison/index-pages/internal/content"
	"github.com/dougwollison/index-pages/internal/links"
	"github.com/dougwollison/index-pages/internal/matcher"
	"github.com/dougwollison/index-pages/internal/options"
	"github.com/dougwollison/index-pages/internal/registry"
)

// App holds the long-lived collaborators shared by every request
type App struct {
	Config *config.Config
	Site   *content.Site
	Store  options.ReadWriter
	Logger *zap.Logger

	hooks    registry.Hooks
	matchers []matcher.Option
	closers  []func() error
}

// Option configures an App
type Option func(*App)

// WithHooks installs registry hooks on every registry the app builds
func WithHooks(hooks registry.Hooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithMatcherOptions adds options to every matcher the app builds
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(a *App) {
		a.matchers = append(a.matchers, opts...)
	}
}

// WithStore replaces the configured option store
func WithStore(store options.ReadWriter) Option {
	return func(a *App) {
		a.Store = store
	}
}

// New builds the site from the configured fixture and opens option
// storage. Fixture options seed the memory driver only; the other drivers
// are expected to hold their own rows.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{Config: cfg, Logger: logger}
	for _, opt := range opts {
		opt(a)
	}

	fixture := &content.Fixture{}
	if cfg.Site.File != "" {
		fx, err := content.LoadFixture(cfg.Site.File)
		if err != nil {
			return nil, err
		}
		fixture = fx
	}

	site, err := fixture.Build(cfg.Site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build site: %w", err)
	}
	a.Site = site

	if a.Store == nil {
		store, err := a.openStore(ctx, fixture.Options)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store
	}

	store, err := a.wrapCache(ctx, a.Store)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	logger.Info("index pages ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("base_url", site.BaseURL()),
		zap.Int("post_types", len(site.PostTypes())),
	)
	return a, nil
}

func (a *App) openStore(ctx context.Context, seed map[string]string) (options.ReadWriter, error) {
	storage := a.Config.Storage

	switch storage.Driver {
	case config.DriverMemory, "":
		return options.NewMemoryStore(seed), nil

	case config.DriverSQLite, config.DriverPgx, config.DriverPostgres:
		db, err := sql.Open(storage.Driver, storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", storage.Driver, err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to %s database: %w", storage.Driver, err)
		}
		if storage.Driver == config.DriverSQLite {
			db.SetMaxOpenConns(1)
		}

		sqlConfig := options.DefaultSQLConfig(db)
		if storage.Table != "" {
			sqlConfig.TableName = storage.Table
		}
		store, err := options.NewSQLStore(sqlConfig)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil

	case config.DriverDynamoDB:
		dynamo := storage.DynamoDB
		client, err := options.NewDynamoClient(ctx, options.DynamoConfig{
			Table:     dynamo.Table,
			Region:    dynamo.Region,
			Endpoint:  dynamo.Endpoint,
			AccessKey: dynamo.AccessKey,
			SecretKey: dynamo.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return options.NewDynamoStore(client, dynamo.Table)
	}

	return nil, fmt.Errorf("unknown storage driver %q", storage.Driver)
}

func (a *App) wrapCache(ctx context.Context, store options.ReadWriter) (options.ReadWriter, error) {
	cacheConfig := a.Config.Cache

	switch {
	case cacheConfig.RedisAddr != "":
		redisConfig := cache.DefaultRedisConfig()
		redisConfig.Addr = cacheConfig.RedisAddr
		if cacheConfig.TTL > 0 {
			redisConfig.Cache.DefaultTTL = cacheConfig.TTL
		}
		c, err := cache.NewRedisCache(ctx, redisConfig)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c.Close)
		return options.NewCachedStore(store, c, cacheConfig.TTL, a.Logger), nil

	case cacheConfig.Memory:
		memConfig := cache.DefaultConfig()
		if cacheConfig.TTL > 0 {
			memConfig.DefaultTTL = cacheConfig.TTL
		}
		return options.NewCachedStore(store, cache.NewMemoryCacheWithConfig(memConfig), cacheConfig.TTL, a.Logger), nil
	}

	return store, nil
}

// Registry builds a fresh, unloaded registry for one request
func (a *App) Registry() *registry.Registry {
	return registry.New(a.Store, a.Site, a.Site,
		registry.WithHooks(a.hooks),
		registry.WithLogger(a.Logger.Named("registry")),
	)
}

// LoadRegistry builds a registry and loads it. A storage failure is
// logged and the partially loaded registry is returned with the error.
func (a *App) LoadRegistry(ctx context.Context) (*registry.Registry, error) {
	reg := a.Registry()
	if err := reg.Load(ctx, false); err != nil {
		return reg, err
	}
	return reg, nil
}

// Matcher builds a matcher reading bindings from reg
func (a *App) Matcher(reg *registry.Registry) *matcher.Matcher {
	opts := append([]matcher.Option{matcher.WithLogger(a.Logger.Named("matcher"))}, a.matchers...)
	return matcher.New(reg, a.Site, opts...)
}

// Links builds a link rewriter reading bindings from reg
func (a *App) Links(reg *registry.Registry) *links.Links {
	return links.New(reg, a.Site, a.Site, a.Site, a.Config.Permalinks)
}

// Close releases storage and cache connections
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
