package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	SessionBackendRedis  = "redis"
	SessionBackendMongo  = "mongo"
	SessionBackendMemory = "memory"

	OrphanLedgerMongo  = "mongo"
	OrphanLedgerMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend      BackendConfig
	Session      SessionConfig
	Wizard       WizardConfig
	Compensation CompensationConfig
	Mongo        MongoConfig
	Redis        RedisConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_API_URL, default=http://localhost:8080/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	Backend    string        `env:"SESSION_BACKEND,     default=redis"`
	Secret     string        `env:"SESSION_SECRET"`
	CookieName string        `env:"SESSION_COOKIE_NAME, default=bookbite_session"`
	TTL        time.Duration `env:"SESSION_TTL,         default=24h"`
	Secure     bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

type WizardConfig struct {
	RedirectURL   string        `env:"WIZARD_REDIRECT_URL,   default=/reservations"`
	RedirectDelay time.Duration `env:"WIZARD_REDIRECT_DELAY, default=3s"`
	SubmitTimeout time.Duration `env:"WIZARD_SUBMIT_TIMEOUT, default=30s"`
}

type CompensationConfig struct {
	Enabled bool   `env:"COMPENSATION_ENABLED, default=false"`
	Workers int    `env:"COMPENSATION_WORKERS, default=4"`
	Ledger  string `env:"ORPHAN_LEDGER,        default=memory"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=bookbite_web"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,    default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,      default=0"`
	TLS      bool          `env:"REDIS_TLS,     default=false"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid BACKEND_API_URL %q: %w", c.Backend.URL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid BACKEND_API_URL %q: missing scheme or host", c.Backend.URL)
	}

	switch c.Session.Backend {
	case SessionBackendRedis, SessionBackendMongo, SessionBackendMemory:
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q: want redis, mongo or memory", c.Session.Backend)
	}

	switch c.Compensation.Ledger {
	case OrphanLedgerMongo, OrphanLedgerMemory:
	default:
		return fmt.Errorf("invalid ORPHAN_LEDGER %q: want mongo or memory", c.Compensation.Ledger)
	}

	if c.Session.Secret == "" && !c.IsDevelopment() {
		return fmt.Errorf("SESSION_SECRET is required outside development")
	}
	return nil
}

// NeedsMongo reports whether any component is configured to use MongoDB.
func (c *Config) NeedsMongo() bool {
	if c.Session.Backend == SessionBackendMongo {
		return true
	}
	return c.Compensation.Enabled && c.Compensation.Ledger == OrphanLedgerMongo
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
