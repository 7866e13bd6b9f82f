package datastore

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/solarscan/solarscan-go/internal/logging"
)

// slowQueryThreshold marks queries worth flagging in the logs. One second
// accommodates automigration batches without drowning the log in warnings.
const slowQueryThreshold = 1 * time.Second

// createGormLogger configures the GORM logger used by both backends.
func createGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// performAutoMigration creates or upgrades the result tables.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&PanelImageReport{}, &PerformanceRecord{}); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		logging.Debug("Database schema migrated",
			"db_type", dbType,
			"connection", connectionInfo)
	}
	return nil
}
