// Package db provides a lightweight GORM-based SQLite wrapper for persisting
// the price oracle's update history.
package db

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pushchain/relayer-price-oracle/priceOracle/store"
)

const (
	// InMemorySQLiteDSN is a special DSN to create an ephemeral in-memory SQLite database.
	InMemorySQLiteDSN = ":memory:"

	// dbDirPermissions sets directory permissions to 750 (rwxr-x---).
	dbDirPermissions = 0o750
)

var (
	gormConfig = &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	// schemaModels lists the structs to be auto-migrated into the database.
	schemaModels = []any{
		&store.PriceUpdateTransaction{},
	}
)

// DB wraps a GORM client and provides simplified DB lifecycle management.
type DB struct {
	client *gorm.DB
}

// OpenFileDB opens (or creates) a file-backed SQLite database located in the given directory.
// If `migrateSchema` is true, all defined schema models are automatically migrated.
func OpenFileDB(dir, filename string, migrateSchema bool) (*DB, error) {
	dsn, err := prepareFilePath(dir, filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare database path")
	}
	return openSQLite(dsn, migrateSchema)
}

// OpenInMemoryDB opens a non-persistent SQLite database in memory.
func OpenInMemoryDB(migrateSchema bool) (*DB, error) {
	return openSQLite(InMemorySQLiteDSN, migrateSchema)
}

func openSQLite(dsn string, migrateSchema bool) (*DB, error) {
	// Only file databases get WAL parameters
	if dsn != InMemorySQLiteDSN && !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000&cache=shared&mode=rwc"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}

	if migrateSchema {
		if err := db.AutoMigrate(schemaModels...); err != nil {
			return nil, errors.Wrap(err, "failed to auto-migrate database schema")
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying sql.DB")
	}

	// SQLite performs best with a single connection in WAL mode
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &DB{client: db}, nil
}

// Client returns the internal *gorm.DB instance for direct usage in queries.
func (d *DB) Client() *gorm.DB {
	return d.client
}

// Close safely closes the underlying database connection.
func (d *DB) Close() error {
	sqlDB, err := d.client.DB()
	if err != nil {
		return errors.Wrap(err, "failed to retrieve native sql.DB")
	}

	if err := sqlDB.Close(); err != nil {
		return errors.Wrap(err, "failed to close database connection")
	}

	return nil
}

// RecordUpdate inserts a new update record and fills its ID.
func (d *DB) RecordUpdate(record *store.PriceUpdateTransaction) error {
	if err := d.client.Create(record).Error; err != nil {
		return errors.Wrapf(err, "failed to record update for chain %d", record.ChainID)
	}
	return nil
}

// SaveUpdate persists changes to an existing update record.
func (d *DB) SaveUpdate(record *store.PriceUpdateTransaction) error {
	if err := d.client.Save(record).Error; err != nil {
		return errors.Wrapf(err, "failed to save update %d", record.ID)
	}
	return nil
}

// RecentUpdates returns the latest update records, newest first.
// A non-zero chainID restricts the result to that home chain.
func (d *DB) RecentUpdates(limit int, chainID uint16) ([]store.PriceUpdateTransaction, error) {
	var records []store.PriceUpdateTransaction
	q := d.client.Order("id DESC").Limit(limit)
	if chainID != 0 {
		q = q.Where("chain_id = ?", chainID)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query updates")
	}
	return records, nil
}

// DeleteOldUpdates removes finished records older than the retention period.
// Pending records are kept so an interrupted update stays visible.
func (d *DB) DeleteOldUpdates(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res := d.client.Unscoped().
		Where("updated_at < ? AND status <> ?", cutoff, store.StatusPending).
		Delete(&store.PriceUpdateTransaction{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "failed to delete old updates")
	}
	return res.RowsAffected, nil
}

// prepareFilePath ensures the target directory exists and returns the full database file path.
func prepareFilePath(dir, filename string) (string, error) {
	if strings.Contains(dir, InMemorySQLiteDSN) {
		return dir, nil
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, dbDirPermissions); err != nil {
			return "", errors.Wrapf(err, "failed to create directory: %s", dir)
		}
	} else if err != nil {
		return "", errors.Wrap(err, "error checking directory")
	}

	return fmt.Sprintf("%s/%s", dir, filename), nil
}
