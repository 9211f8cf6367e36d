package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/relayer-price-oracle/priceOracle/db"
)

// HistoryCleaner periodically deletes finished update records older than the retention period.
type HistoryCleaner struct {
	database        *db.DB
	cleanupInterval time.Duration
	retentionPeriod time.Duration
	logger          zerolog.Logger
}

// NewHistoryCleaner creates a new history cleaner
func NewHistoryCleaner(database *db.DB, cleanupInterval, retentionPeriod time.Duration, logger zerolog.Logger) *HistoryCleaner {
	return &HistoryCleaner{
		database:        database,
		cleanupInterval: cleanupInterval,
		retentionPeriod: retentionPeriod,
		logger:          logger.With().Str("component", "history_cleaner").Logger(),
	}
}

func (hc *HistoryCleaner) Name() string { return "history-cleaner" }

func (hc *HistoryCleaner) Interval() time.Duration { return hc.cleanupInterval }

// Run executes one cleanup pass.
func (hc *HistoryCleaner) Run(ctx context.Context) error {
	start := time.Now()

	deleted, err := hc.database.DeleteOldUpdates(hc.retentionPeriod)
	if err != nil {
		return err
	}

	if deleted == 0 {
		hc.logger.Debug().
			Dur("duration", time.Since(start)).
			Msg("history cleanup completed - no records to delete")
		return nil
	}

	hc.checkpointWAL()
	hc.logger.Info().
		Int64("total_deleted", deleted).
		Dur("retention_period", hc.retentionPeriod).
		Dur("duration", time.Since(start)).
		Msg("history cleanup completed")
	return nil
}

// checkpointWAL truncates the WAL so deleted rows release disk space.
func (hc *HistoryCleaner) checkpointWAL() {
	if err := hc.database.Client().Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		hc.logger.Warn().Err(err).Msg("failed to checkpoint WAL")
	}
}
