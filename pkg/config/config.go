package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App          AppConfig
	Metrics      MetricsConfig
	DB           DBConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	PostalCode   PostalCodeConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var err error
	if c.RateLimit.QuoteLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be negative", EnvQuoteRateLimit))
	}
	if c.RateLimit.QuoteWindow < 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be negative", EnvQuoteRateWindow))
	}
	if _, proxyErr := c.RateLimit.TrustedProxyPrefixes(); proxyErr != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", EnvTrustedProxies, proxyErr))
	}
	if c.PostalCode.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvPostalCodeTimeout))
	}
	switch strings.ToLower(c.App.LogFormat) {
	case "json", "console":
	default:
		err = multierr.Append(err, fmt.Errorf("%s must be json or console", EnvLogFormat))
	}
	if c.Metrics.Port != "" && c.Metrics.Port == c.App.Port {
		err = multierr.Append(err, fmt.Errorf("%s must differ from %s", EnvMetricsPort, EnvPort))
	}
	return err
}

type AppConfig struct {
	Env          string `envconfig:"SHIPQUOTE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHIPQUOTE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHIPQUOTE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHIPQUOTE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SHIPQUOTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// MetricsConfig controls the Prometheus exposition listener. An empty port disables it.
type MetricsConfig struct {
	Port string `envconfig:"SHIPQUOTE_METRICS_PORT" default:"9090"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHIPQUOTE_DB_DSN"`
	Driver string `envconfig:"SHIPQUOTE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHIPQUOTE_DB_HOST"`
	LegacyPort     int    `envconfig:"SHIPQUOTE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHIPQUOTE_DB_USER"`
	LegacyPassword string `envconfig:"SHIPQUOTE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHIPQUOTE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHIPQUOTE_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"SHIPQUOTE_SQLITE_PATH" default:"shipquote.db"`

	MaxOpenConns    int           `envconfig:"SHIPQUOTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHIPQUOTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHIPQUOTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHIPQUOTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHIPQUOTE_REDIS_URL"`
	Address      string        `envconfig:"SHIPQUOTE_REDIS_ADDR"`
	Password     string        `envconfig:"SHIPQUOTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHIPQUOTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHIPQUOTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHIPQUOTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHIPQUOTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHIPQUOTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHIPQUOTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// RateLimitConfig drives the quote limiter. TrustedProxies lists the CIDRs or
// addresses of the load balancers allowed to set X-Forwarded-For; when empty
// the peer address is used as is.
type RateLimitConfig struct {
	QuoteWindow    time.Duration `envconfig:"SHIPQUOTE_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteLimit     int           `envconfig:"SHIPQUOTE_RATE_LIMIT_QUOTE_LIMIT" default:"120"`
	TrustedProxies []string      `envconfig:"SHIPQUOTE_RATE_LIMIT_TRUSTED_PROXIES"`
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address is a single-host prefix.
func (r RateLimitConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(r.TrustedProxies))
	for _, raw := range r.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy cidr %q: %w", raw, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy address %q: %w", raw, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHIPQUOTE_AUTO_MIGRATE" default:"false"`
}

type PostalCodeConfig struct {
	BaseURL string        `envconfig:"SHIPQUOTE_POSTAL_CODE_BASE_URL" default:"https://viacep.com.br/ws"`
	Timeout time.Duration `envconfig:"SHIPQUOTE_POSTAL_CODE_TIMEOUT" default:"5s"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SHIPQUOTE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// UsesSQLite reports whether the catalog should be served from a local SQLite file.
func (db DBConfig) UsesSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.UsesSQLite() {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
