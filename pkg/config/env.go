package config

// EnvPrefix namespaces every MediaShelf environment variable. envconfig also
// falls back to the bare tag name, so DATABASE_URL and SECRET_KEY work
// unprefixed.
const EnvPrefix = "mediashelf"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "MEDIASHELF_APP_ENV"
	EnvAppHost      = "MEDIASHELF_APP_HOST"
	EnvAppPort      = "MEDIASHELF_APP_PORT"
	EnvLogLevel     = "MEDIASHELF_LOG_LEVEL"
	EnvLogWarnStack = "MEDIASHELF_LOG_WARN_STACK"
	EnvAutoMigrate  = "MEDIASHELF_AUTO_MIGRATE"
	EnvCORSOrigins  = "MEDIASHELF_CORS_ORIGINS"

	EnvDatabaseURL = "DATABASE_URL"
	EnvSecretKey   = "SECRET_KEY"

	// EnvPort is the platform-standard listener override honored by cmd/api.
	EnvPort = "PORT"
)

const (
	DefaultDatabaseURL = "sqlite://mediashelf.db"
	DefaultSecretKey   = "dev-secret"
)
