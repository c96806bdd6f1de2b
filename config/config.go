// Package config holds the pokeview configuration: defaults, an optional YAML
// file and POKEVIEW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Below are the default values of the pokeview config.
const (
	DefaultBaseURL         = "https://pokeapi.co/api/v2/"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultMaxWaitInterval = 3 * time.Second
	DefaultLanguage        = "en"
	DefaultPageLimit       = 50

	DefaultCacheBackend   = "memory"
	DefaultCacheSize      = 512
	DefaultCacheTTL       = 10 * time.Minute
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "pokeview:cache:"

	DefaultServerAddr      = "localhost:8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 1 << 20

	DefaultLogLevel = "info"

	DefaultMaxDepth        = 512
	DefaultMessageLanguage = "en"
)

// Config is the configuration for pokeview.
type Config struct {
	Client *Client `yaml:"Client" validate:"required"`
	Cache  *Cache  `yaml:"Cache" validate:"required"`
	Server *Server `yaml:"Server" validate:"required"`
	Log    *Log    `yaml:"Log" validate:"required"`
	Caster *Caster `yaml:"Caster" validate:"required"`
}

// Client configures the PokeAPI client.
type Client struct {
	BaseURL         string        `yaml:"BaseURL" env:"POKEVIEW_BASE_URL" validate:"required,url"`
	RequestTimeout  time.Duration `yaml:"RequestTimeout" env:"POKEVIEW_REQUEST_TIMEOUT" validate:"gt=0"`
	MaxRetries      uint64        `yaml:"MaxRetries" env:"POKEVIEW_MAX_RETRIES" validate:"lte=20"`
	MaxWaitInterval time.Duration `yaml:"MaxWaitInterval" env:"POKEVIEW_MAX_WAIT_INTERVAL" validate:"gt=0"`
	Language        string        `yaml:"Language" env:"POKEVIEW_LANGUAGE" validate:"required"`
	PageLimit       int           `yaml:"PageLimit" env:"POKEVIEW_PAGE_LIMIT" validate:"min=1,max=1000"`
}

// Cache configures the response cache.
type Cache struct {
	Backend   string        `yaml:"Backend" env:"POKEVIEW_CACHE_BACKEND" validate:"oneof=memory redis"`
	Size      int           `yaml:"Size" env:"POKEVIEW_CACHE_SIZE" validate:"min=1"`
	TTL       time.Duration `yaml:"TTL" env:"POKEVIEW_CACHE_TTL" validate:"min=0"`
	RedisAddr string        `yaml:"RedisAddr" env:"POKEVIEW_REDIS_ADDR" validate:"required_if=Backend redis"`
	RedisDB   int           `yaml:"RedisDB" env:"POKEVIEW_REDIS_DB" validate:"min=0"`
	KeyPrefix string        `yaml:"KeyPrefix" env:"POKEVIEW_REDIS_KEY_PREFIX"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr            string        `yaml:"Addr" env:"POKEVIEW_ADDR" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"ShutdownTimeout" env:"POKEVIEW_SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"MaxBodyBytes" env:"POKEVIEW_MAX_BODY_BYTES" validate:"gt=0"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"Level" env:"POKEVIEW_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// Caster configures schema casting.
type Caster struct {
	StrictUnknown   bool   `yaml:"StrictUnknown" env:"POKEVIEW_STRICT_UNKNOWN"`
	MaxDepth        int    `yaml:"MaxDepth" env:"POKEVIEW_MAX_DEPTH" validate:"min=1"`
	MessageLanguage string `yaml:"MessageLanguage" env:"POKEVIEW_MESSAGE_LANGUAGE" validate:"oneof=en ja"`
}

var defaultValidator = validator.New()

// NewConfig returns a Config struct that contains reasonable defaults.
func NewConfig() *Config {
	conf := &Config{}
	conf.ensureDefaultValue()
	return conf
}

// NewConfigFromFile returns a Config struct for the given conf file. Missing
// values keep their defaults.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// ApplyEnv overrides values from POKEVIEW_* environment variables.
func (c *Config) ApplyEnv() error {
	for _, section := range []interface{}{c.Client, c.Cache, c.Server, c.Log, c.Caster} {
		if err := envdecode.Decode(section); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return fmt.Errorf("decode environment: %w", err)
		}
	}
	return nil
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := defaultValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s: failed on %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) ensureDefaultValue() {
	if c.Client == nil {
		c.Client = &Client{}
	}
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = DefaultBaseURL
	}
	if c.Client.RequestTimeout == 0 {
		c.Client.RequestTimeout = DefaultRequestTimeout
	}
	if c.Client.MaxRetries == 0 {
		c.Client.MaxRetries = DefaultMaxRetries
	}
	if c.Client.MaxWaitInterval == 0 {
		c.Client.MaxWaitInterval = DefaultMaxWaitInterval
	}
	if c.Client.Language == "" {
		c.Client.Language = DefaultLanguage
	}
	if c.Client.PageLimit == 0 {
		c.Client.PageLimit = DefaultPageLimit
	}

	if c.Cache == nil {
		c.Cache = &Cache{}
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = DefaultCacheSize
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = DefaultRedisKeyPrefix
	}

	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	if c.Caster == nil {
		c.Caster = &Caster{}
	}
	if c.Caster.MaxDepth == 0 {
		c.Caster.MaxDepth = DefaultMaxDepth
	}
	if c.Caster.MessageLanguage == "" {
		c.Caster.MessageLanguage = DefaultMessageLanguage
	}
}
