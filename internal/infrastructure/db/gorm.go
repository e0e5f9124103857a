package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"loan-ledger-service/internal/domain/decision"
	"loan-ledger-service/internal/domain/loan"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// OpenGorm opens dsn with the named driver, pings it and tunes the pool.
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case DriverMySQL:
		return OpenGormWithDialector(mysql.Open(dsn))
	case DriverSQLite:
		gdb, err := OpenGormWithDialector(sqlite.Open(dsn))
		if err != nil {
			return nil, err
		}
		// one connection keeps an in-memory database alive and shared
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func OpenGormWithDialector(d gorm.Dialector) (*gorm.DB, error) {
	// the explicit Ping below is the only connectivity check
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	}
	gdb, err := gorm.Open(d, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Info().Str("dialector", d.Name()).Msg("gorm: connected")
	return gdb, nil
}

// Migrate creates or updates the loans, loan_transactions and loan_decisions tables.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&loan.Loan{}, &loan.Transaction{}, &decision.Decision{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
