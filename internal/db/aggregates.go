package db

import (
	"context"
	"fmt"

	"github.com/j-veylop/geostar-dashboard/internal/logger"
	"github.com/j-veylop/geostar-dashboard/internal/models"
)

// SQL fragments shared by the aggregation queries.
const (
	sqlEnergySum  = `COALESCE(SUM(total_power), 0)`
	sqlHeatingSum = `COALESCE(SUM(COALESCE(total_heat_1, 0) + COALESCE(total_heat_2, 0)), 0)`
	sqlCoolingSum = `COALESCE(SUM(COALESCE(total_cool_1, 0) + COALESCE(total_cool_2, 0)), 0)`
	sqlRuntimeSum = `COALESCE(SUM(
		COALESCE(runtime_heat_1, 0) + COALESCE(runtime_heat_2, 0) +
		COALESCE(runtime_cool_1, 0) + COALESCE(runtime_cool_2, 0) +
		COALESCE(runtime_electric_heat, 0) + COALESCE(runtime_fan_only, 0)
	), 0)`
	sqlLocalTime = `(timestamp + ?) / 1000, 'unixepoch'`
	sqlLocalHour = `printf('%02d', CAST(strftime('%H', ` + sqlLocalTime + `) AS INTEGER))`
)

// bucketExpr returns the SQL bucket label for a resolution along with how
// many offset placeholders it consumes.
func bucketExpr(res models.Resolution) (string, int) {
	switch res {
	case models.ResolutionHourly:
		return `date(` + sqlLocalTime + `) || ' ' || ` + sqlLocalHour + ` || ':00'`, 2
	case models.Resolution15Min:
		return `date(` + sqlLocalTime + `) || ' ' || ` + sqlLocalHour + ` || ':' ||
			printf('%02d', (CAST(strftime('%M', ` + sqlLocalTime + `) AS INTEGER) / 15) * 15)`, 3
	default:
		return `date(` + sqlLocalTime + `)`, 1
	}
}

// OverviewStats sums energy, heating, cooling and runtime inside [fromMs, toMs].
func (db *DB) OverviewStats(ctx context.Context, fromMs, toMs int64) (models.OverviewStats, error) {
	query := `SELECT ` + sqlEnergySum + `, ` + sqlHeatingSum + `, ` + sqlCoolingSum + `, ` + sqlRuntimeSum + `
		FROM energy_readings
		WHERE timestamp >= ? AND timestamp <= ?`

	var s models.OverviewStats
	err := db.QueryRowContext(ctx, query, fromMs, toMs).
		Scan(&s.TotalEnergy, &s.TotalHeating, &s.TotalCooling, &s.TotalRuntime)
	if err != nil {
		return models.OverviewStats{}, fmt.Errorf("failed to query overview stats: %w", err)
	}
	return s, nil
}

// BucketTotals groups readings in [fromMs, toMs] by time bucket and gateway.
// offsetMs shifts timestamps into local time before bucketing. Rows come
// back newest bucket first, then by gateway.
func (db *DB) BucketTotals(ctx context.Context, res models.Resolution, offsetMs, fromMs, toMs int64) ([]models.BucketTotal, error) {
	expr, binds := bucketExpr(res)
	query := `SELECT ` + expr + ` AS bucket, gateway_id, ` +
		sqlEnergySum + `, ` + sqlHeatingSum + `, ` + sqlCoolingSum + `, ` + sqlRuntimeSum + `
		FROM energy_readings
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY bucket, gateway_id
		ORDER BY bucket DESC, gateway_id`

	args := make([]any, 0, binds+2)
	for range binds {
		args = append(args, offsetMs)
	}
	args = append(args, fromMs, toMs)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bucket totals: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	totals := []models.BucketTotal{}
	for rows.Next() {
		var t models.BucketTotal
		if err := rows.Scan(&t.Date, &t.GatewayID, &t.TotalEnergy, &t.TotalHeating, &t.TotalCooling, &t.TotalRuntime); err != nil {
			return nil, fmt.Errorf("failed to scan bucket total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// DaySummary sums energy, heating and cooling inside [fromMs, toMs].
func (db *DB) DaySummary(ctx context.Context, fromMs, toMs int64) (models.DailySummary, error) {
	query := `SELECT ` + sqlEnergySum + `, ` + sqlHeatingSum + `, ` + sqlCoolingSum + `
		FROM energy_readings
		WHERE timestamp >= ? AND timestamp <= ?`

	var s models.DailySummary
	if err := db.QueryRowContext(ctx, query, fromMs, toMs).Scan(&s.TotalEnergy, &s.TotalHeating, &s.TotalCooling); err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to query daily summary: %w", err)
	}
	return s, nil
}

// HourlyBreakdown groups one day of readings by local hour and gateway.
func (db *DB) HourlyBreakdown(ctx context.Context, offsetMs, fromMs, toMs int64) ([]models.HourlyBreakdown, error) {
	query := `SELECT ` + sqlLocalHour + ` AS hour, gateway_id, ` +
		sqlEnergySum + `, ` + sqlHeatingSum + `, ` + sqlCoolingSum + `,
		COALESCE(SUM(total_heat_1), 0),
		COALESCE(SUM(total_heat_2), 0),
		COALESCE(SUM(total_cool_1), 0),
		COALESCE(SUM(total_cool_2), 0)
		FROM energy_readings
		WHERE timestamp >= ? AND timestamp <= ?
		GROUP BY hour, gateway_id
		ORDER BY hour, gateway_id`

	rows, err := db.QueryContext(ctx, query, offsetMs, fromMs, toMs)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly breakdown: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	hourly := []models.HourlyBreakdown{}
	for rows.Next() {
		var h models.HourlyBreakdown
		if err := rows.Scan(&h.Hour, &h.GatewayID, &h.TotalEnergy, &h.TotalHeating, &h.TotalCooling,
			&h.Heat1, &h.Heat2, &h.Cool1, &h.Cool2); err != nil {
			return nil, fmt.Errorf("failed to scan hourly breakdown: %w", err)
		}
		hourly = append(hourly, h)
	}
	return hourly, rows.Err()
}
