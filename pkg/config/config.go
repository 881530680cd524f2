package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.DB.ensureURL()
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"MEDIASHELF_APP_ENV" default:"dev"`
	Host         string   `envconfig:"MEDIASHELF_APP_HOST" default:"127.0.0.1"`
	Port         string   `envconfig:"MEDIASHELF_APP_PORT" default:"8080"`
	SecretKey    string   `envconfig:"SECRET_KEY" default:"dev-secret"`
	LogLevel     string   `envconfig:"MEDIASHELF_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"MEDIASHELF_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"MEDIASHELF_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UsingDefaultSecret reports whether the insecure placeholder secret is
// still in effect. cmd/api warns on it outside dev.
func (a AppConfig) UsingDefaultSecret() bool {
	return a.SecretKey == DefaultSecretKey
}

// Addr joins the configured host and port into a listen address.
func (a AppConfig) Addr() string {
	return net.JoinHostPort(a.Host, a.Port)
}

type DBConfig struct {
	URL string `envconfig:"DATABASE_URL"`

	MaxOpenConns    int           `envconfig:"MEDIASHELF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDIASHELF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDIASHELF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDIASHELF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDIASHELF_AUTO_MIGRATE" default:"true"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Driver infers the database driver from the URL scheme. Anything that is
// not a Postgres URL is treated as a SQLite location.
func (db DBConfig) Driver() string {
	u := strings.ToLower(strings.TrimSpace(db.URL))
	if strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// SQLitePath resolves the on-disk location from the configured URL.
// Accepted forms: sqlite://name.db, sqlite:///relative.db,
// sqlite:////absolute/path.db, file: DSNs, :memory:, or a bare path.
func (db DBConfig) SQLitePath() string {
	raw := strings.TrimSpace(db.URL)
	if raw == "" {
		return ""
	}
	if raw == ":memory:" || strings.HasPrefix(raw, "file:") {
		return raw
	}
	for _, scheme := range []string{"sqlite3://", "sqlite://"} {
		if strings.HasPrefix(raw, scheme) {
			rest := strings.TrimPrefix(raw, scheme)
			// sqlite:///name.db means a relative path, four slashes an
			// absolute one.
			rest = strings.TrimPrefix(rest, "/")
			return rest
		}
	}
	return raw
}

func (db *DBConfig) ensureURL() {
	// envconfig leaves an explicitly empty DATABASE_URL as-is; fall back to
	// the local file database either way.
	if strings.TrimSpace(db.URL) == "" {
		db.URL = DefaultDatabaseURL
	}
}
