package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/stockpile/config"
)

// Connect opens the configured database and sets up the connection
// pool. The handle is returned to the caller rather than stored in a
// package global; repositories receive it at construction.
func Connect() (*gorm.DB, error) {
	driver := config.DatabaseDriver()
	dsn := config.DatabaseDSN()

	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // pkg/logger does the logging
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}
