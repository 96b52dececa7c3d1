// Package models defines data structures and domain types.
package models

// EnergyReading is one 15-minute sample reported by a heat-pump gateway.
// Value columns are nullable in storage and stay nil when the gateway
// did not report them.
type EnergyReading struct {
	ID        int64  `json:"id"`
	GatewayID string `json:"gateway_id"`
	// Timestamp is unix milliseconds.
	Timestamp int64 `json:"timestamp"`

	TotalHeat1            *float64 `json:"total_heat_1"`
	TotalHeat2            *float64 `json:"total_heat_2"`
	TotalCool1            *float64 `json:"total_cool_1"`
	TotalCool2            *float64 `json:"total_cool_2"`
	TotalElectricHeat     *float64 `json:"total_electric_heat"`
	TotalFanOnly          *float64 `json:"total_fan_only"`
	TotalLoopPump         *float64 `json:"total_loop_pump"`
	TotalDehumidification *float64 `json:"total_dehumidification"`

	RuntimeHeat1            *float64 `json:"runtime_heat_1"`
	RuntimeHeat2            *float64 `json:"runtime_heat_2"`
	RuntimeCool1            *float64 `json:"runtime_cool_1"`
	RuntimeCool2            *float64 `json:"runtime_cool_2"`
	RuntimeElectricHeat     *float64 `json:"runtime_electric_heat"`
	RuntimeFanOnly          *float64 `json:"runtime_fan_only"`
	RuntimeDehumidification *float64 `json:"runtime_dehumidification"`

	TotalPower *float64 `json:"total_power"`
}

// Float returns a pointer to v, for building readings in code.
func Float(v float64) *float64 { return &v }

// Value dereferences a nullable column, treating nil as zero.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
