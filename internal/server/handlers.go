package server

import (
	"net/http"

	"github.com/j-veylop/geostar-dashboard/internal/db"
	"github.com/j-veylop/geostar-dashboard/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := parseOverview(r.URL.Query(), s.now(), s.loc, s.days)

	fromMs := models.StartOfDayMillis(f.DateFrom, s.loc)
	toMs := models.EndOfDayMillis(f.DateTo, s.loc)
	offsetMs := models.OffsetMillis(s.loc, f.DateFrom)

	stats, err := s.store.OverviewStats(ctx, fromMs, toMs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	totals, err := s.store.BucketTotals(ctx, f.Resolution, offsetMs, fromMs, toMs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	gateways, err := s.store.Gateways(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.OverviewResponse{
		Stats:    stats,
		Totals:   totals,
		Gateways: gateways,
		Filters:  f,
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := parseDaily(r.URL.Query(), s.now(), s.loc)

	fromMs := models.StartOfDayMillis(date, s.loc)
	toMs := models.EndOfDayMillis(date, s.loc)
	offsetMs := models.OffsetMillis(s.loc, date)

	summary, err := s.store.DaySummary(ctx, fromMs, toMs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hourly, err := s.store.HourlyBreakdown(ctx, offsetMs, fromMs, toMs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	gateways, err := s.store.Gateways(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DailyResponse{
		Date:     date,
		Summary:  summary,
		Hourly:   hourly,
		Gateways: gateways,
	})
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, page := parseReadings(r.URL.Query())

	q := db.ReadingsQuery{
		GatewayID: f.GatewayID,
		Sort:      f.Sort,
		Desc:      f.Order == "desc",
		Limit:     models.ReadingsPageSize,
		Offset:    (page - 1) * models.ReadingsPageSize,
	}
	if f.DateFrom != "" {
		q.FromMs = models.StartOfDayMillis(f.DateFrom, s.loc)
	}
	if f.DateTo != "" {
		q.ToMs = models.EndOfDayMillis(f.DateTo, s.loc)
	}

	total, err := s.store.CountReadings(ctx, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	readings, err := s.store.ListReadings(ctx, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	gateways, err := s.store.Gateways(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ReadingsResponse{
		Readings: readings,
		Page:     page,
		Total:    total,
		Gateways: gateways,
		Filters:  f,
	})
}
