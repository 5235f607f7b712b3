package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DevJWTSecret signs tokens when JWT_SECRET is unset outside production.
const DevJWTSecret = "dev-only-insecure-jwt-secret"

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	RevocationMemory   = "memory"
	RevocationRedis    = "redis"
	RevocationPostgres = "postgres"
)

type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	ServerPort              string        `envconfig:"PORT" default:"3000"`
	ServerReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"10s"`
	ServerWriteTimeout      time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ServerIdleTimeout       time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`
	RequestTimeout          time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	JWTSecret        string        `envconfig:"JWT_SECRET"`
	JWTExpiration    time.Duration `envconfig:"JWT_EXPIRATION" default:"1h"`
	MaxLoginAttempts int           `envconfig:"MAX_LOGIN_ATTEMPTS" default:"5"`
	PasswordMinLen   int           `envconfig:"PASSWORD_MIN_LENGTH" default:"8"`
	BcryptCost       int           `envconfig:"BCRYPT_COST" default:"10"`

	StoreDriver   string `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017/auth_api"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"auth_api"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	DBMaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns    int32  `envconfig:"DB_MIN_CONNS" default:"1"`

	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	DBMaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"5m"`

	RevocationBackend string `envconfig:"REVOCATION_BACKEND" default:"memory"`
	RedisURL          string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	c.RevocationBackend = strings.ToLower(strings.TrimSpace(c.RevocationBackend))
	c.AdminEmail = strings.TrimSpace(c.AdminEmail)

	origins := make([]string, 0, len(c.CORSOrigins))
	for _, origin := range c.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.CORSOrigins = origins

	if c.JWTSecret == "" && !c.IsProduction() {
		c.JWTSecret = DevJWTSecret
	}
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.IsProduction() && c.JWTSecret == DevJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}

	if strings.TrimSpace(c.ServerPort) == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.JWTExpiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}

	if c.MaxLoginAttempts <= 0 {
		return fmt.Errorf("MAX_LOGIN_ATTEMPTS must be positive")
	}

	switch c.StoreDriver {
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.RevocationBackend {
	case RevocationMemory, RevocationRedis:
	case RevocationPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres revocation backend")
		}
	default:
		return fmt.Errorf("unknown REVOCATION_BACKEND %q", c.RevocationBackend)
	}

	if c.AdminEmail != "" && c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func (c *Config) UsesPostgres() bool {
	return c.StoreDriver == StorePostgres || c.RevocationBackend == RevocationPostgres
}
