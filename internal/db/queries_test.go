package db

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/j-veylop/geostar-dashboard/internal/models"
)

const (
	gwA = "8813BF342F64"
	gwB = "8813BF34217C"
)

func ms(hour, minute int) int64 {
	return time.Date(2024, 3, 15, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func dayBounds() (int64, int64) {
	return ms(0, 0), time.Date(2024, 3, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC).UnixMilli()
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func seedReadings(t *testing.T, db *DB) {
	t.Helper()
	readings := []models.EnergyReading{
		{GatewayID: gwA, Timestamp: ms(9, 0), TotalPower: models.Float(1.5), TotalHeat1: models.Float(1.0), TotalCool1: models.Float(0.2)},
		{GatewayID: gwA, Timestamp: ms(9, 15), TotalPower: models.Float(2.5), TotalHeat1: models.Float(2.0)},
		{GatewayID: gwB, Timestamp: ms(10, 30), TotalPower: models.Float(3.0), TotalCool2: models.Float(1.0),
			RuntimeHeat1: models.Float(10), RuntimeFanOnly: models.Float(5)},
	}
	if err := db.InsertReadings(context.Background(), readings); err != nil {
		t.Fatalf("InsertReadings() failed: %v", err)
	}
}

func TestOverviewStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	seedReadings(t, db)

	from, to := dayBounds()
	stats, err := db.OverviewStats(context.Background(), from, to)
	if err != nil {
		t.Fatalf("OverviewStats() failed: %v", err)
	}

	if !approx(stats.TotalEnergy, 7.0) || !approx(stats.TotalHeating, 3.0) ||
		!approx(stats.TotalCooling, 1.2) || !approx(stats.TotalRuntime, 15) {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestOverviewStats_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	stats, err := db.OverviewStats(context.Background(), 0, math.MaxInt64)
	if err != nil {
		t.Fatalf("OverviewStats() failed: %v", err)
	}
	if stats != (models.OverviewStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestBucketTotals(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	seedReadings(t, db)
	from, to := dayBounds()

	tests := []struct {
		name   string
		res    models.Resolution
		offset int64
		want   []models.BucketTotal
	}{
		{
			name: "Daily",
			res:  models.ResolutionDaily,
			want: []models.BucketTotal{
				{Date: "2024-03-15", GatewayID: gwB, TotalEnergy: 3.0, TotalCooling: 1.0, TotalRuntime: 15},
				{Date: "2024-03-15", GatewayID: gwA, TotalEnergy: 4.0, TotalHeating: 3.0, TotalCooling: 0.2},
			},
		},
		{
			name: "Hourly",
			res:  models.ResolutionHourly,
			want: []models.BucketTotal{
				{Date: "2024-03-15 10:00", GatewayID: gwB, TotalEnergy: 3.0, TotalCooling: 1.0, TotalRuntime: 15},
				{Date: "2024-03-15 09:00", GatewayID: gwA, TotalEnergy: 4.0, TotalHeating: 3.0, TotalCooling: 0.2},
			},
		},
		{
			name: "FifteenMinute",
			res:  models.Resolution15Min,
			want: []models.BucketTotal{
				{Date: "2024-03-15 10:30", GatewayID: gwB, TotalEnergy: 3.0, TotalCooling: 1.0, TotalRuntime: 15},
				{Date: "2024-03-15 09:15", GatewayID: gwA, TotalEnergy: 2.5, TotalHeating: 2.0},
				{Date: "2024-03-15 09:00", GatewayID: gwA, TotalEnergy: 1.5, TotalHeating: 1.0, TotalCooling: 0.2},
			},
		},
		{
			name:   "HourlyShiftedToPacific",
			res:    models.ResolutionHourly,
			offset: -8 * 3600 * 1000,
			want: []models.BucketTotal{
				{Date: "2024-03-15 02:00", GatewayID: gwB, TotalEnergy: 3.0, TotalCooling: 1.0, TotalRuntime: 15},
				{Date: "2024-03-15 01:00", GatewayID: gwA, TotalEnergy: 4.0, TotalHeating: 3.0, TotalCooling: 0.2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.BucketTotals(context.Background(), tt.res, tt.offset, from, to)
			if err != nil {
				t.Fatalf("BucketTotals() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				g := got[i]
				if g.Date != w.Date || g.GatewayID != w.GatewayID ||
					!approx(g.TotalEnergy, w.TotalEnergy) || !approx(g.TotalHeating, w.TotalHeating) ||
					!approx(g.TotalCooling, w.TotalCooling) || !approx(g.TotalRuntime, w.TotalRuntime) {
					t.Errorf("row %d = %+v, want %+v", i, g, w)
				}
			}
		})
	}
}

func TestHourlyBreakdownAndSummary(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	seedReadings(t, db)
	from, to := dayBounds()

	hourly, err := db.HourlyBreakdown(context.Background(), 0, from, to)
	if err != nil {
		t.Fatalf("HourlyBreakdown() failed: %v", err)
	}
	if len(hourly) != 2 {
		t.Fatalf("got %d rows, want 2", len(hourly))
	}
	if h := hourly[0]; h.Hour != "09" || h.GatewayID != gwA || !approx(h.TotalEnergy, 4.0) ||
		!approx(h.Heat1, 3.0) || !approx(h.Cool1, 0.2) || h.Heat2 != 0 {
		t.Errorf("unexpected first row: %+v", h)
	}
	if h := hourly[1]; h.Hour != "10" || h.GatewayID != gwB || !approx(h.Cool2, 1.0) {
		t.Errorf("unexpected second row: %+v", h)
	}

	summary, err := db.DaySummary(context.Background(), from, to)
	if err != nil {
		t.Fatalf("DaySummary() failed: %v", err)
	}
	if !approx(summary.TotalEnergy, 7.0) || !approx(summary.TotalHeating, 3.0) || !approx(summary.TotalCooling, 1.2) {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestListReadings(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	seedReadings(t, db)
	ctx := context.Background()

	byPower, err := db.ListReadings(ctx, ReadingsQuery{Sort: "total_power", Desc: true})
	if err != nil {
		t.Fatalf("ListReadings() failed: %v", err)
	}
	if len(byPower) != 3 || *byPower[0].TotalPower != 3.0 || *byPower[2].TotalPower != 1.5 {
		t.Fatalf("unexpected order: %+v", byPower)
	}
	if byPower[0].TotalHeat1 != nil {
		t.Error("NULL column should scan to nil")
	}
	if byPower[0].RuntimeFanOnly == nil || *byPower[0].RuntimeFanOnly != 5 {
		t.Error("runtime column not scanned")
	}

	fallback, err := db.ListReadings(ctx, ReadingsQuery{Sort: "1; DROP TABLE energy_readings"})
	if err != nil {
		t.Fatalf("ListReadings() with bad sort failed: %v", err)
	}
	if len(fallback) != 3 || fallback[0].Timestamp != ms(9, 0) {
		t.Errorf("bad sort should fall back to ascending timestamp, got %+v", fallback)
	}

	page, err := db.ListReadings(ctx, ReadingsQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListReadings() paging failed: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("second page has %d rows, want 1", len(page))
	}

	filtered, err := db.ListReadings(ctx, ReadingsQuery{GatewayID: gwA, FromMs: ms(9, 10)})
	if err != nil {
		t.Fatalf("ListReadings() filtered failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Timestamp != ms(9, 15) {
		t.Errorf("unexpected filtered rows: %+v", filtered)
	}
}

func TestCountReadingsAndGateways(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	seedReadings(t, db)
	ctx := context.Background()

	n, err := db.CountReadings(ctx, ReadingsQuery{})
	if err != nil || n != 3 {
		t.Errorf("CountReadings() = %d, %v; want 3", n, err)
	}
	n, err = db.CountReadings(ctx, ReadingsQuery{GatewayID: gwB})
	if err != nil || n != 1 {
		t.Errorf("CountReadings(gwB) = %d, %v; want 1", n, err)
	}
	n, err = db.CountReadings(ctx, ReadingsQuery{ToMs: ms(9, 0)})
	if err != nil || n != 1 {
		t.Errorf("CountReadings(to 09:00) = %d, %v; want 1", n, err)
	}

	gateways, err := db.Gateways(ctx)
	if err != nil {
		t.Fatalf("Gateways() failed: %v", err)
	}
	if len(gateways) != 2 || gateways[0] != gwB || gateways[1] != gwA {
		t.Errorf("Gateways() = %v, want sorted distinct ids", gateways)
	}
}

func TestInsertReadings_ReplacesDuplicates(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()
	ctx := context.Background()

	first := []models.EnergyReading{{GatewayID: gwA, Timestamp: ms(9, 0), TotalPower: models.Float(1)}}
	second := []models.EnergyReading{{GatewayID: gwA, Timestamp: ms(9, 0), TotalPower: models.Float(2)}}
	if err := db.InsertReadings(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := db.InsertReadings(ctx, second); err != nil {
		t.Fatal(err)
	}

	rows, err := db.ListReadings(ctx, ReadingsQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || *rows[0].TotalPower != 2 {
		t.Errorf("expected one replaced row, got %+v", rows)
	}
}
