package db

import (
	"context"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version records how many
// have run. Append only.
var migrations = []string{
	// 1: readings table.
	`CREATE TABLE IF NOT EXISTS energy_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		gateway_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		total_heat_1 REAL,
		total_heat_2 REAL,
		total_cool_1 REAL,
		total_cool_2 REAL,
		total_electric_heat REAL,
		total_fan_only REAL,
		total_loop_pump REAL,
		total_dehumidification REAL,
		runtime_heat_1 REAL,
		runtime_heat_2 REAL,
		runtime_cool_1 REAL,
		runtime_cool_2 REAL,
		runtime_electric_heat REAL,
		runtime_fan_only REAL,
		runtime_dehumidification REAL,
		total_power REAL,
		UNIQUE(gateway_id, timestamp)
	)`,
	// 2: range scans by time, and per gateway.
	`CREATE INDEX IF NOT EXISTS idx_energy_readings_timestamp ON energy_readings(timestamp);
	CREATE INDEX IF NOT EXISTS idx_energy_readings_gateway_time ON energy_readings(gateway_id, timestamp)`,
	// 3: early imports stored unix seconds. No millisecond timestamp after
	// March 1973 is below 1e11.
	`UPDATE OR IGNORE energy_readings
		SET timestamp = timestamp * 1000
		WHERE timestamp > 0 AND timestamp < 100000000000`,
}

// migrate applies pending migrations, each in its own transaction.
func (db *DB) migrate(ctx context.Context) error {
	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this binary (%d)", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		// PRAGMA takes no bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}
	return nil
}
