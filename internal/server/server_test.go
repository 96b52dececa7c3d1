package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/j-veylop/geostar-dashboard/internal/cache"
	"github.com/j-veylop/geostar-dashboard/internal/db"
	"github.com/j-veylop/geostar-dashboard/internal/models"
)

const (
	gwA = "8813BF342F64"
	gwB = "8813BF34217C"
)

var fixedNow = time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)

func at(day, hour, minute int) int64 {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *db.DB) {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	readings := []models.EnergyReading{
		{GatewayID: gwA, Timestamp: at(15, 9, 0), TotalPower: models.Float(1.5), TotalHeat1: models.Float(1)},
		{GatewayID: gwA, Timestamp: at(15, 9, 15), TotalPower: models.Float(2.5), TotalHeat2: models.Float(2)},
		{GatewayID: gwB, Timestamp: at(14, 10, 30), TotalPower: models.Float(3), TotalCool1: models.Float(1)},
	}
	if err := store.InsertReadings(context.Background(), readings); err != nil {
		t.Fatalf("InsertReadings() failed: %v", err)
	}

	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	srv := httptest.NewServer(New(store, opts).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if v != nil {
		if err := json.Unmarshal(body, v); err != nil {
			t.Fatalf("decode %s: %v (%s)", url, err, body)
		}
	}
	return resp
}

func TestOverview_Defaults(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	tests := []struct {
		name  string
		query string
	}{
		{"NoParams", ""},
		{"MalformedDates", "?date_from=yesterday&date_to=2024-02-30&resolution=weekly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.OverviewResponse
			resp := getJSON(t, srv.URL+"/api/overview"+tt.query, &got)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			want := models.OverviewFilters{DateFrom: "2024-03-08", DateTo: "2024-03-15", Resolution: models.ResolutionDaily}
			if got.Filters != want {
				t.Errorf("filters = %+v, want %+v", got.Filters, want)
			}
			if got.Stats.TotalEnergy != 7 {
				t.Errorf("total energy = %v, want 7", got.Stats.TotalEnergy)
			}
			if len(got.Totals) != 2 || got.Totals[0].Date != "2024-03-15" || got.Totals[1].Date != "2024-03-14" {
				t.Errorf("unexpected totals: %+v", got.Totals)
			}
			if len(got.Gateways) != 2 {
				t.Errorf("gateways = %v", got.Gateways)
			}
		})
	}
}

func TestOverview_Hourly(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	var got models.OverviewResponse
	getJSON(t, srv.URL+"/api/overview?date_from=2024-03-15&date_to=2024-03-15&resolution=hourly", &got)

	if got.Filters.Resolution != models.ResolutionHourly {
		t.Errorf("resolution = %q", got.Filters.Resolution)
	}
	if len(got.Totals) != 1 || got.Totals[0].Date != "2024-03-15 09:00" || got.Totals[0].TotalEnergy != 4 {
		t.Errorf("unexpected totals: %+v", got.Totals)
	}
	if got.Stats.TotalHeating != 3 {
		t.Errorf("heating = %v, want 3", got.Stats.TotalHeating)
	}
}

func TestDaily(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	var got models.DailyResponse
	getJSON(t, srv.URL+"/api/daily?date=2024-03-15", &got)
	if got.Date != "2024-03-15" {
		t.Errorf("date = %q", got.Date)
	}
	if len(got.Hourly) != 1 || got.Hourly[0].Hour != "09" || got.Hourly[0].TotalEnergy != 4 ||
		got.Hourly[0].Heat1 != 1 || got.Hourly[0].Heat2 != 2 {
		t.Errorf("unexpected hourly: %+v", got.Hourly)
	}
	if got.Summary.TotalEnergy != 4 {
		t.Errorf("summary = %+v", got.Summary)
	}

	var def models.DailyResponse
	getJSON(t, srv.URL+"/api/daily?date=garbage", &def)
	if def.Date != "2024-03-15" {
		t.Errorf("malformed date should fall back to today, got %q", def.Date)
	}
}

func TestReadings(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	var got models.ReadingsResponse
	getJSON(t, srv.URL+"/api/readings?sort=bogus&order=ASC&page=abc", &got)

	if got.Page != 1 || got.Total != 3 {
		t.Errorf("page/total = %d/%d", got.Page, got.Total)
	}
	if got.Filters.Sort != "timestamp" || got.Filters.Order != "asc" {
		t.Errorf("filters = %+v", got.Filters)
	}
	if len(got.Readings) != 3 || got.Readings[0].GatewayID != gwB {
		t.Errorf("expected ascending timestamp order, got %+v", got.Readings)
	}
	if got.Readings[0].TotalHeat1 != nil {
		t.Error("null columns should stay null on the wire")
	}

	var filtered models.ReadingsResponse
	getJSON(t, srv.URL+"/api/readings?gateway_id="+gwA+"&date_from=2024-03-15&sort=total_power", &filtered)
	if filtered.Total != 2 || filtered.Filters.Order != "desc" || *filtered.Readings[0].TotalPower != 2.5 {
		t.Errorf("unexpected filtered result: %+v", filtered)
	}

	var empty models.ReadingsResponse
	getJSON(t, srv.URL+"/api/readings?page=9", &empty)
	if len(empty.Readings) != 0 || empty.Readings == nil {
		t.Errorf("past-the-end page should be an empty list, got %v", empty.Readings)
	}
}

func TestParseReadings_Page(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"7", 7},
		{"1000000", 1000000},
		{"1000001", 1},
		{"4611686018427387904", 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, page := parseReadings(url.Values{"page": {tt.raw}})
			if page != tt.want {
				t.Errorf("page = %d, want %d", page, tt.want)
			}
		})
	}
}

func TestReadings_HugePageFallsBack(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	var got models.ReadingsResponse
	getJSON(t, srv.URL+"/api/readings?page=4611686018427387904", &got)
	if got.Page != 1 || len(got.Readings) != 3 {
		t.Errorf("page = %d, readings = %d, want page 1 with all rows", got.Page, len(got.Readings))
	}
}

func TestRequestIDAndCache(t *testing.T) {
	srv, _ := newTestServer(t, Options{Cache: cache.NewMemory(time.Minute)})

	first := getJSON(t, srv.URL+"/api/daily?date=2024-03-15", nil)
	if first.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if first.Header.Get("X-Cache") != "MISS" {
		t.Errorf("first response X-Cache = %q", first.Header.Get("X-Cache"))
	}

	second := getJSON(t, srv.URL+"/api/daily?date=2024-03-15", nil)
	if second.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second response X-Cache = %q", second.Header.Get("X-Cache"))
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "geostar_api_cache_hits_total 1") {
		t.Errorf("metrics missing cache hit count:\n%s", body)
	}
}

type failingStore struct{ db.DB }

func (failingStore) OverviewStats(context.Context, int64, int64) (models.OverviewStats, error) {
	return models.OverviewStats{}, errors.New("disk on fire")
}

func TestOverview_StoreError(t *testing.T) {
	store := &failingStore{}
	srv := httptest.NewServer(New(store, Options{}).Handler())
	defer srv.Close()

	var body errorResponse
	resp := getJSON(t, srv.URL+"/api/overview", &body)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if body.Error == "" || strings.Contains(body.Error, "disk") {
		t.Errorf("error body should be generic, got %q", body.Error)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	var body map[string]string
	getJSON(t, srv.URL+"/api/health", &body)
	if body["status"] != "ok" {
		t.Errorf("health = %v", body)
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimit: 2})

	var codes []int
	for range 3 {
		resp := getJSON(t, srv.URL+"/api/daily?date=2024-03-15", nil)
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first two requests = %v, want 200", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}

	// Health checks are outside the limited group.
	if resp := getJSON(t, srv.URL+"/api/health", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}
