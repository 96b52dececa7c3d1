package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/models"
)

const readingColumns = `
	gateway_id, timestamp,
	total_heat_1, total_heat_2, total_cool_1, total_cool_2,
	total_electric_heat, total_fan_only, total_loop_pump, total_dehumidification,
	runtime_heat_1, runtime_heat_2, runtime_cool_1, runtime_cool_2,
	runtime_electric_heat, runtime_fan_only, runtime_dehumidification,
	total_power`

// ReadingsQuery filters and orders the raw readings listing.
type ReadingsQuery struct {
	GatewayID string
	// FromMs and ToMs bound the timestamp inclusively; zero means unbounded.
	FromMs int64
	ToMs   int64
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

func (q ReadingsQuery) where() (string, []any) {
	var conds []string
	var args []any
	if q.GatewayID != "" {
		conds = append(conds, "gateway_id = ?")
		args = append(args, q.GatewayID)
	}
	if q.FromMs != 0 {
		conds = append(conds, "timestamp >= ?")
		args = append(args, q.FromMs)
	}
	if q.ToMs != 0 {
		conds = append(conds, "timestamp <= ?")
		args = append(args, q.ToMs)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// InsertReadings stores readings in one transaction. Duplicate
// (gateway, timestamp) pairs replace the stored row.
func (db *DB) InsertReadings(ctx context.Context, readings []models.EnergyReading) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO energy_readings (`+readingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range readings {
		r := &readings[i]
		if _, err := stmt.ExecContext(ctx,
			r.GatewayID, r.Timestamp,
			r.TotalHeat1, r.TotalHeat2, r.TotalCool1, r.TotalCool2,
			r.TotalElectricHeat, r.TotalFanOnly, r.TotalLoopPump, r.TotalDehumidification,
			r.RuntimeHeat1, r.RuntimeHeat2, r.RuntimeCool1, r.RuntimeCool2,
			r.RuntimeElectricHeat, r.RuntimeFanOnly, r.RuntimeDehumidification,
			r.TotalPower,
		); err != nil {
			return fmt.Errorf("failed to insert reading: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit readings: %w", err)
	}
	return nil
}

// CountReadings returns how many readings match q, ignoring paging.
func (db *DB) CountReadings(ctx context.Context, q ReadingsQuery) (int, error) {
	where, args := q.where()
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM energy_readings "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return n, nil
}

// ListReadings returns one page of readings. Unknown sort columns fall back
// to timestamp.
func (db *DB) ListReadings(ctx context.Context, q ReadingsQuery) ([]models.EnergyReading, error) {
	where, args := q.where()

	sortCol := q.Sort
	if !models.ValidSortColumn(sortCol) {
		sortCol = "timestamp"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	if q.Limit <= 0 {
		q.Limit = models.ReadingsPageSize
	}

	query := fmt.Sprintf(`SELECT id, %s FROM energy_readings %s ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		readingColumns, where, sortCol, dir, dir)
	args = append(args, q.Limit, q.Offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	readings := []models.EnergyReading{}
	for rows.Next() {
		var r models.EnergyReading
		var vals [16]sql.NullFloat64
		dest := []any{&r.ID, &r.GatewayID, &r.Timestamp}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		targets := []**float64{
			&r.TotalHeat1, &r.TotalHeat2, &r.TotalCool1, &r.TotalCool2,
			&r.TotalElectricHeat, &r.TotalFanOnly, &r.TotalLoopPump, &r.TotalDehumidification,
			&r.RuntimeHeat1, &r.RuntimeHeat2, &r.RuntimeCool1, &r.RuntimeCool2,
			&r.RuntimeElectricHeat, &r.RuntimeFanOnly, &r.RuntimeDehumidification,
			&r.TotalPower,
		}
		for i, t := range targets {
			*t = nullFloat(vals[i])
		}
		readings = append(readings, r)
	}

	return readings, rows.Err()
}

// Gateways returns every distinct gateway id, sorted.
func (db *DB) Gateways(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT DISTINCT gateway_id FROM energy_readings ORDER BY gateway_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query gateways: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	gateways := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan gateway: %w", err)
		}
		gateways = append(gateways, id)
	}
	return gateways, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
