// Package config loads the adapter configuration, either from a YAML
// file per environment or from the compact adapter URI form.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// URIScheme identifies this adapter in connection URIs.
const URIScheme = "sphinx"

// Engine defaults.
const (
	DefaultHost = "localhost"
	DefaultPort = 3312
)

// Config holds the sphindex configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Engine     EngineConfig     `yaml:"engine"`
	Translator TranslatorConfig `yaml:"translator"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
	Models     []ModelConfig    `yaml:"models"`
}

// ModelConfig declares one searchable model for the gateway.
type ModelConfig struct {
	Name        string            `yaml:"name"`
	StorageName string            `yaml:"storage_name"`
	Attributes  []AttributeConfig `yaml:"attributes"`
	Indexes     []IndexConfig     `yaml:"indexes"`
}

// AttributeConfig declares one model attribute.
type AttributeConfig struct {
	Name  string `yaml:"name"`
	Field string `yaml:"field"`
	Kind  string `yaml:"kind"` // fulltext or attr
}

// IndexConfig declares one engine index for a model.
type IndexConfig struct {
	Name  string `yaml:"name"`
	Delta bool   `yaml:"delta"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP gateway settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// EngineConfig holds searchd connection settings.
type EngineConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Config is the path to the daemon's own index/daemon config file,
	// optional but recommended; passed to the supervisor when managed.
	Config string `yaml:"config"`
	// Managed asks the adapter to supervise a local daemon process.
	// The supervision logic itself is an external collaborator.
	Managed bool `yaml:"managed"`
}

// TranslatorConfig selects the match-generation strategy.
type TranslatorConfig struct {
	Mode string `yaml:"mode"` // filters (default) or inline
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	Enabled bool     `yaml:"enabled"`
	Addrs   []string `yaml:"addrs"`
	Pass    string   `yaml:"password"`
	TTLSec  int      `yaml:"ttl_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Engine.Host == "" {
		c.Engine.Host = DefaultHost
	}
	if c.Engine.Port <= 0 {
		c.Engine.Port = DefaultPort
	}
	if c.Translator.Mode == "" {
		c.Translator.Mode = "filters"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 60
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Engine.Port <= 0 || c.Engine.Port > 65535 {
		return fmt.Errorf("engine.port must be between 1 and 65535, got %d", c.Engine.Port)
	}
	switch c.Translator.Mode {
	case "filters", "inline":
		// ok
	default:
		return fmt.Errorf("translator.mode must be \"filters\" or \"inline\", got %q", c.Translator.Mode)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache.enabled")
	}
	for i, m := range c.Models {
		if m.Name == "" {
			return fmt.Errorf("models[%d].name is required", i)
		}
		for _, a := range m.Attributes {
			switch a.Kind {
			case "fulltext", "attr":
				// ok
			default:
				return fmt.Errorf("models.%s attribute %q kind must be \"fulltext\" or \"attr\", got %q",
					m.Name, a.Name, a.Kind)
			}
		}
	}
	return nil
}

// ParseURI parses the compact adapter URI form
// sphinx://host:port/path/to/searchd.conf into engine settings.
func ParseURI(uri string) (EngineConfig, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("parse adapter uri: %w", err)
	}
	if u.Scheme != URIScheme {
		return EngineConfig{}, fmt.Errorf("adapter uri scheme must be %q, got %q", URIScheme, u.Scheme)
	}

	eng := EngineConfig{Host: u.Hostname(), Config: u.Path}
	if eng.Host == "" {
		eng.Host = DefaultHost
	}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("adapter uri port %q: %w", p, err)
		}
		eng.Port = port
	} else {
		eng.Port = DefaultPort
	}
	return eng, nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
