package db

import (
	"fmt"
	"time"

	"facetag/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to MySQL when a DSN is configured, otherwise to the SQLite file
func Open(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.MySQLDSN != "" {
		dsn, err := mysqlDSN(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		dialector = mysql.Open(dsn.FormatDSN())
		log.WithFields(logrus.Fields{"address": dsn.Addr, "database": dsn.DBName}).Info("Using MySQL database")
	} else {
		dialector = sqlite.Open(cfg.SQLiteFile)
		log.WithField("file", cfg.SQLiteFile).Info("Using SQLite database")
	}
	level := gormlogger.Silent
	if cfg.DebugMode {
		level = gormlogger.Info
	}
	instance, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return instance, nil
}

// mysqlDSN parses the DSN and turns on the options the models rely on:
// parseTime for timestamps and utf8mb4 so any name can be stored
func mysqlDSN(raw string) (*mysqldriver.Config, error) {
	dsn, err := mysqldriver.ParseDSN(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid MYSQL_DSN: %w", err)
	}
	dsn.ParseTime = true
	if dsn.Params == nil {
		dsn.Params = map[string]string{}
	}
	if _, ok := dsn.Params["charset"]; !ok {
		dsn.Params["charset"] = "utf8mb4"
	}
	return dsn, nil
}

// Ping checks the underlying connection is alive
func Ping(instance *gorm.DB) error {
	sqlDB, err := instance.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(instance *gorm.DB) error {
	sqlDB, err := instance.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
