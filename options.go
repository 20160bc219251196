package sphindex

import (
	"time"

	"go.uber.org/zap"

	"github.com/skran-dev/sphindex/internal/config"
	"github.com/skran-dev/sphindex/internal/translate"
)

// TranslatorMode selects how full-text predicates reach the engine.
type TranslatorMode string

const (
	// ModeFilters expresses the query through attribute filters only;
	// the match expression stays empty (full index scan).
	ModeFilters TranslatorMode = TranslatorMode(translate.ModeFilters)
	// ModeInline renders full-text conditions into the match string.
	ModeInline TranslatorMode = TranslatorMode(translate.ModeInline)
)

type clientConfig struct {
	host       string
	port       int
	configPath string
	managed    bool
	supervisor Supervisor
	mode       translate.Mode
	logger     *zap.Logger
	cacheAddrs []string
	cachePass  string
	cacheTTL   time.Duration
	err        error
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		host:     config.DefaultHost,
		port:     config.DefaultPort,
		mode:     translate.ModeFilters,
		cacheTTL: time.Minute,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithHost sets the searchd host (default "localhost").
func WithHost(host string) Option {
	return func(c *clientConfig) { c.host = host }
}

// WithPort sets the searchd port (default 3312).
func WithPort(port int) Option {
	return func(c *clientConfig) { c.port = port }
}

// WithConfigPath records the path to the daemon's own config file,
// optional but recommended; handed to the Supervisor in managed mode.
func WithConfigPath(path string) Option {
	return func(c *clientConfig) { c.configPath = path }
}

// WithManaged asks the client to start and stop a local daemon around
// its lifecycle through the given Supervisor.
func WithManaged(s Supervisor) Option {
	return func(c *clientConfig) {
		c.managed = true
		c.supervisor = s
	}
}

// WithTranslatorMode selects the match-generation strategy.
func WithTranslatorMode(mode TranslatorMode) Option {
	return func(c *clientConfig) { c.mode = translate.Mode(mode) }
}

// WithLogger injects the logger; queries log one info line each.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = logger }
}

// WithResultCache enables the Redis-backed result cache.
func WithResultCache(addrs []string, password string, ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheAddrs = addrs
		c.cachePass = password
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// FromURI applies the compact adapter URI form
// sphinx://host:port/path/to/searchd.conf.
func FromURI(uri string) Option {
	return func(c *clientConfig) {
		eng, err := config.ParseURI(uri)
		if err != nil {
			c.err = err
			return
		}
		c.host = eng.Host
		c.port = eng.Port
		c.configPath = eng.Config
	}
}
