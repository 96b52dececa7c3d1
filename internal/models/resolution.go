package models

// Resolution is the time-bucket width used by the overview aggregation.
type Resolution string

const (
	// ResolutionDaily buckets by calendar day.
	ResolutionDaily Resolution = "daily"
	// ResolutionHourly buckets by hour of day.
	ResolutionHourly Resolution = "hourly"
	// Resolution15Min buckets by quarter hour.
	Resolution15Min Resolution = "15min"
)

// Resolutions lists every supported resolution in selector order.
var Resolutions = []Resolution{ResolutionDaily, ResolutionHourly, Resolution15Min}

// ParseResolution returns the matching resolution or daily for anything unknown.
func ParseResolution(s string) Resolution {
	switch Resolution(s) {
	case ResolutionHourly:
		return ResolutionHourly
	case Resolution15Min:
		return Resolution15Min
	default:
		return ResolutionDaily
	}
}

// String returns the display name for a resolution.
func (r Resolution) String() string {
	switch r {
	case ResolutionHourly:
		return "Hourly"
	case Resolution15Min:
		return "15 Min"
	default:
		return "Daily"
	}
}

// PointRadius is the marker size charts use for this resolution.
func (r Resolution) PointRadius() int {
	switch r {
	case ResolutionHourly:
		return 1
	case Resolution15Min:
		return 0
	default:
		return 2
	}
}

// SubDaily reports whether buckets are finer than one day.
func (r Resolution) SubDaily() bool {
	return r == ResolutionHourly || r == Resolution15Min
}

// Next cycles to the following resolution.
func (r Resolution) Next() Resolution {
	for i, res := range Resolutions {
		if res == r {
			return Resolutions[(i+1)%len(Resolutions)]
		}
	}
	return ResolutionDaily
}
