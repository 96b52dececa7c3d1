package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/j-veylop/geostar-dashboard/internal/models"
)

var validate = validator.New()

type overviewParams struct {
	DateFrom   string `validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `validate:"omitempty,datetime=2006-01-02"`
	Resolution string `validate:"omitempty,oneof=daily hourly 15min"`
}

type dailyParams struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

// The page cap keeps the row offset far from integer overflow.
type readingsParams struct {
	Page      int    `validate:"min=1,max=1000000"`
	GatewayID string `validate:"omitempty,max=64,printascii"`
	DateFrom  string `validate:"omitempty,datetime=2006-01-02"`
	DateTo    string `validate:"omitempty,datetime=2006-01-02"`
	Sort      string `validate:"omitempty,oneof=timestamp gateway_id total_power"`
	Order     string `validate:"omitempty,oneof=asc desc"`
}

// invalidFields returns the struct field names that failed validation.
func invalidFields(v any) map[string]bool {
	bad := map[string]bool{}
	var verrs validator.ValidationErrors
	if err := validate.Struct(v); errors.As(err, &verrs) {
		for _, fe := range verrs {
			bad[fe.StructField()] = true
		}
	}
	return bad
}

// parseOverview reads overview parameters, replacing anything missing or
// malformed with its default.
func parseOverview(q url.Values, now time.Time, loc *time.Location, days int) models.OverviewFilters {
	p := overviewParams{
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Resolution: q.Get("resolution"),
	}
	bad := invalidFields(p)

	defFrom, defTo := models.DefaultRange(now, loc, days)
	f := models.OverviewFilters{
		DateFrom:   p.DateFrom,
		DateTo:     p.DateTo,
		Resolution: models.ParseResolution(p.Resolution),
	}
	if f.DateFrom == "" || bad["DateFrom"] {
		f.DateFrom = defFrom
	}
	if f.DateTo == "" || bad["DateTo"] {
		f.DateTo = defTo
	}
	return f
}

func parseDaily(q url.Values, now time.Time, loc *time.Location) string {
	p := dailyParams{Date: q.Get("date")}
	if p.Date == "" || invalidFields(p)["Date"] {
		return models.Today(now, loc)
	}
	return p.Date
}

func parseReadings(q url.Values) (models.ReadingsFilters, int) {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	p := readingsParams{
		Page:      page,
		GatewayID: q.Get("gateway_id"),
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		Sort:      q.Get("sort"),
		Order:     strings.ToLower(q.Get("order")),
	}
	bad := invalidFields(p)

	f := models.ReadingsFilters{
		GatewayID: p.GatewayID,
		DateFrom:  p.DateFrom,
		DateTo:    p.DateTo,
		Sort:      p.Sort,
		Order:     p.Order,
	}
	if bad["Page"] {
		page = 1
	}
	if bad["GatewayID"] {
		f.GatewayID = ""
	}
	if bad["DateFrom"] {
		f.DateFrom = ""
	}
	if bad["DateTo"] {
		f.DateTo = ""
	}
	if f.Sort == "" || bad["Sort"] {
		f.Sort = "timestamp"
	}
	if f.Order != "asc" {
		f.Order = "desc"
	}
	return f, page
}
