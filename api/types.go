// Package api - Request and response types.
// The API layer only ingests input, orchestrates the core, and
// serializes output; no pricing logic lives here.
package api

import (
	"shopquote/core/capacity"
	"shopquote/core/dfm"
	"shopquote/core/feasibility"
	"shopquote/core/types"
)

// QuoteRequest prices one item
type QuoteRequest struct {
	Item types.QuoteItem `json:"item"`
}

// QuoteResponse carries the pricing result with a request id for
// correlation
type QuoteResponse struct {
	QuoteID string               `json:"quote_id"`
	Result  *types.PricingResult `json:"result"`
}

// TiersRequest prices one item at several quantities
type TiersRequest struct {
	Item       types.QuoteItem `json:"item"`
	Quantities []int           `json:"quantities"`
}

// TiersResponse maps quantity to its smoothed pricing result
type TiersResponse struct {
	QuoteID string                       `json:"quote_id"`
	Tiers   map[int]*types.PricingResult `json:"tiers"`
}

// FeasibilityRequest checks one item against one catalog machine
type FeasibilityRequest struct {
	Item      types.QuoteItem `json:"item"`
	MachineID string          `json:"machine_id"`
}

// FeasibilityResponse wraps the checker result
type FeasibilityResponse struct {
	MachineID string             `json:"machine_id"`
	Result    feasibility.Result `json:"result"`
}

// DFMRequest analyzes geometry for manufacturability
type DFMRequest struct {
	Process        types.ProcessKind `json:"process"`
	Geometry       *types.Geometry   `json:"geometry"`
	MaterialID     string            `json:"material_id,omitempty"`
	ToleranceID    string            `json:"tolerance_id,omitempty"`
	Certifications []string          `json:"certifications,omitempty"`
	Purpose        string            `json:"purpose,omitempty"`
}

// DFMResponse wraps the analysis result
type DFMResponse struct {
	Result dfm.Result `json:"result"`
}

// ReserveRequest commits capacity on a machine
type ReserveRequest struct {
	MachineID string              `json:"machine_id"`
	Minutes   float64             `json:"minutes"`
	LeadTime  types.LeadTimeClass `json:"lead_time"`
}

// ReserveResponse returns the promised ship date
type ReserveResponse struct {
	ReservationID string `json:"reservation_id"`
	MachineID     string `json:"machine_id"`
	ShipDate      string `json:"ship_date"`
}

// SlotResponse returns a found slot without committing it
type SlotResponse struct {
	MachineID string        `json:"machine_id"`
	Slot      capacity.Slot `json:"slot"`
}

// errorResponse is the uniform error envelope
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
