package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort     string
	AppEnv      string
	LogLevel    string
	CORSOrigins []string

	DBDriver  string
	SQLiteDSN string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// RedisAddr empty disables the idempotency middleware.
	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	RateLimitPerMinute int
	RateLimitBurst     int

	PenaltyFine  decimal.Decimal
	PenaltyDays  int
	RefundAmount decimal.Decimal
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDecimal(k, d string) decimal.Decimal {
	if v, err := decimal.NewFromString(getenv(k, d)); err == nil {
		return v
	}
	return decimal.RequireFromString(d)
}

// Load reads the environment, after merging a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:     getenv("APP_PORT", "8080"),
		AppEnv:      getenv("APP_ENV", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		CORSOrigins: strings.Split(getenv("CORS_ORIGINS", "*"), ","),

		DBDriver:  strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		SQLiteDSN: getenv("SQLITE_DSN", "file::memory:?cache=shared"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loans"),
		MySQLUser: getenv("MYSQL_USER", "loans"),
		MySQLPass: getenv("MYSQL_PASS", "loans"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		RateLimitPerMinute: getenvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getenvInt("RATE_LIMIT_BURST", 20),

		PenaltyFine:  getenvDecimal("PENALTY_FINE", "100.00"),
		PenaltyDays:  getenvInt("PENALTY_DAYS", 30),
		RefundAmount: getenvDecimal("REFUND_AMOUNT", "50.00"),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := net.LookupPort("tcp", c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLiteDSN == "" {
			return errors.New("missing SQLITE_DSN")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or mysql)", c.DBDriver)
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if c.RateLimitPerMinute <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	if !c.PenaltyFine.IsPositive() || !c.RefundAmount.IsPositive() || c.PenaltyDays < 0 {
		return errors.New("PENALTY_FINE and REFUND_AMOUNT must be positive, PENALTY_DAYS non-negative")
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

// DSN is the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "mysql" {
		return c.MySQLDSN()
	}
	return c.SQLiteDSN
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
