// Package types - Capacity day records
package types

import "time"

// CapacityDay is one machine-day of bookable capacity, unique per
// (machine, day). Created lazily; mutated only by reservation.
type CapacityDay struct {
	MachineID string `json:"machine_id"`

	// Day is the calendar day, truncated to midnight UTC
	Day time.Time `json:"day"`

	// MinutesAvailable is the bookable capacity for the day
	MinutesAvailable float64 `json:"minutes_available"`

	// MinutesReserved is the committed capacity for the day
	MinutesReserved float64 `json:"minutes_reserved"`
}

// Remaining returns the uncommitted minutes
func (d CapacityDay) Remaining() float64 {
	return d.MinutesAvailable - d.MinutesReserved
}

// DateOnly truncates a time to its UTC calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
