package database

import (
	"fmt"

	"examhub/internal/config"
	"examhub/internal/logger"

	_ "github.com/godror/godror" // "godror" driver, OCI based
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // "oracle" driver, pure Go
	"go.uber.org/zap"
)

// NewSQLXOracleDB opens and pings an Oracle connection pool using the driver
// named in cfg.Driver.
func NewSQLXOracleDB(cfg config.DBConfig, dsn string) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverGoOra
	}
	if driver != config.DriverGoOra && driver != config.DriverGodror {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Connected to Oracle database", zap.String("driver", driver), zap.String("host", cfg.Host))
	return db, nil
}
