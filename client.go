// Package sphindex adapts structured object queries onto the Sphinx
// searchd full-text engine: conditions, ordering and pagination are
// translated into the engine's wire query, dispatched in one blocking
// round trip, and returned matches are mapped back to result rows.
// Index building happens out-of-band through the engine's own
// indexer; create and delete are therefore acknowledged no-ops.
package sphindex

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/skran-dev/sphindex/internal/domain"
	"github.com/skran-dev/sphindex/internal/engine"
	kvRedis "github.com/skran-dev/sphindex/internal/kv/redis"
	"github.com/skran-dev/sphindex/internal/metrics"
	"github.com/skran-dev/sphindex/internal/repository/rescache"
	searchrepo "github.com/skran-dev/sphindex/internal/repository/search"
	"github.com/skran-dev/sphindex/internal/translate"
	readuc "github.com/skran-dev/sphindex/internal/usecase/read"
)

// ErrNotFound is returned by First when the engine matched nothing.
var ErrNotFound = domain.ErrNotFound

// Supervisor manages a local searchd process around the client
// lifecycle. The supervision logic itself lives in the embedding
// application; the client only starts and stops it.
type Supervisor interface {
	Start(ctx context.Context, configPath string) error
	Stop(ctx context.Context) error
}

// Client is the sphindex entry point.
type Client struct {
	engine     *engine.Client
	read       *readuc.Service
	store      *kvRedis.Store
	supervisor Supervisor
	configPath string
	logger     *zap.Logger
}

// New creates a Client for the declared models.
func New(models []Model, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	if len(models) == 0 {
		return nil, errors.New("sphindex: at least one model is required")
	}
	registry, err := toRegistry(models)
	if err != nil {
		return nil, fmt.Errorf("sphindex: %w", err)
	}

	translator, err := translate.ForMode(cfg.mode)
	if err != nil {
		return nil, fmt.Errorf("sphindex: %w", err)
	}

	client := engine.NewClient(cfg.host, cfg.port)

	var repo readuc.Repository = searchrepo.New(client)
	var store *kvRedis.Store
	if len(cfg.cacheAddrs) > 0 {
		store, err = kvRedis.NewStore(kvRedis.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePass})
		if err != nil {
			return nil, fmt.Errorf("sphindex: create cache store: %w", err)
		}
		repo = rescache.New(repo, store, cfg.cacheTTL, metrics.CacheTotal, cfg.logger)
	}

	c := &Client{
		engine:     client,
		read:       readuc.New(repo, registry, translator, cfg.logger),
		store:      store,
		supervisor: cfg.supervisor,
		configPath: cfg.configPath,
		logger:     cfg.logger,
	}

	if cfg.managed {
		if c.supervisor == nil {
			if store != nil {
				store.Close()
			}
			return nil, errors.New("sphindex: managed mode requires a Supervisor (use WithManaged)")
		}
		if err := c.supervisor.Start(context.Background(), cfg.configPath); err != nil {
			if store != nil {
				store.Close()
			}
			return nil, fmt.Errorf("sphindex: start managed daemon: %w", err)
		}
	}

	return c, nil
}

// Close releases the cache connection and stops a managed daemon.
func (c *Client) Close() error {
	if c.store != nil {
		c.store.Close()
	}
	if c.supervisor != nil {
		if err := c.supervisor.Stop(context.Background()); err != nil {
			return fmt.Errorf("sphindex: stop managed daemon: %w", err)
		}
	}
	return nil
}

// Ping checks engine connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.engine.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search starts a query builder against one model.
func (c *Client) Search(model string) *SearchBuilder {
	return &SearchBuilder{client: c, model: model}
}

// Create acknowledges resource creation without acting: documents
// reach the engine through its external indexer.
func (c *Client) Create(ctx context.Context, model string, resources int) error {
	return c.read.Create(ctx, model, resources)
}

// Delete acknowledges deletion without acting, for the same reason.
func (c *Client) Delete(ctx context.Context, model string) error {
	return c.read.Delete(ctx, model)
}
