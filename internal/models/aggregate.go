package models

// OverviewStats are the range-wide totals shown on the overview stat cards.
type OverviewStats struct {
	TotalEnergy  float64 `json:"total_energy"`
	TotalHeating float64 `json:"total_heating"`
	TotalCooling float64 `json:"total_cooling"`
	TotalRuntime float64 `json:"total_runtime"`
}

// BucketTotal is one (bucket, gateway) row of the overview aggregation.
// Date holds the bucket label: YYYY-MM-DD, or YYYY-MM-DD HH:MM below daily.
type BucketTotal struct {
	Date         string  `json:"date"`
	GatewayID    string  `json:"gateway_id"`
	TotalEnergy  float64 `json:"total_energy"`
	TotalHeating float64 `json:"total_heating"`
	TotalCooling float64 `json:"total_cooling"`
	TotalRuntime float64 `json:"total_runtime"`
}

// DailySummary totals one calendar day.
type DailySummary struct {
	TotalEnergy  float64 `json:"total_energy"`
	TotalHeating float64 `json:"total_heating"`
	TotalCooling float64 `json:"total_cooling"`
}

// HourlyBreakdown is one (hour, gateway) row of the daily view.
type HourlyBreakdown struct {
	Hour         string  `json:"hour"`
	GatewayID    string  `json:"gateway_id"`
	TotalEnergy  float64 `json:"total_energy"`
	TotalHeating float64 `json:"total_heating"`
	TotalCooling float64 `json:"total_cooling"`
	Heat1        float64 `json:"heat_1"`
	Heat2        float64 `json:"heat_2"`
	Cool1        float64 `json:"cool_1"`
	Cool2        float64 `json:"cool_2"`
}

// OverviewFilters echoes the effective overview parameters.
type OverviewFilters struct {
	DateFrom   string     `json:"date_from"`
	DateTo     string     `json:"date_to"`
	Resolution Resolution `json:"resolution"`
}

// OverviewResponse is the /api/overview payload.
type OverviewResponse struct {
	Stats    OverviewStats   `json:"stats"`
	Totals   []BucketTotal   `json:"totals"`
	Gateways []string        `json:"gateways"`
	Filters  OverviewFilters `json:"filters"`
}

// DailyResponse is the /api/daily payload.
type DailyResponse struct {
	Date     string            `json:"date"`
	Summary  DailySummary      `json:"summary"`
	Hourly   []HourlyBreakdown `json:"hourly"`
	Gateways []string          `json:"gateways"`
}

// ReadingsFilters echoes the effective readings parameters.
type ReadingsFilters struct {
	GatewayID string `json:"gateway_id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	Sort      string `json:"sort"`
	Order     string `json:"order"`
}

// ReadingsResponse is the /api/readings payload.
type ReadingsResponse struct {
	Readings []EnergyReading `json:"readings"`
	Page     int             `json:"page"`
	Total    int             `json:"total"`
	Gateways []string        `json:"gateways"`
	Filters  ReadingsFilters `json:"filters"`
}

// ReadingsPageSize is the fixed page size of the readings listing.
const ReadingsPageSize = 50

// TotalPages returns how many pages the listing spans.
func (r ReadingsResponse) TotalPages() int {
	return (r.Total + ReadingsPageSize - 1) / ReadingsPageSize
}

// ReadingSortColumns are the columns the readings listing may be sorted by.
var ReadingSortColumns = []string{"timestamp", "gateway_id", "total_power"}

// ValidSortColumn reports whether col is an allowed sort column.
func ValidSortColumn(col string) bool {
	for _, c := range ReadingSortColumns {
		if c == col {
			return true
		}
	}
	return false
}
