// Package types - Quote request types
package types

import (
	shoperrors "shopquote/internal/errors"
)

// QuoteItem is a single part to be priced. It carries everything the
// pricing core needs; catalog data is resolved by the caller and passed
// in explicitly so the core never reaches for ambient state.
type QuoteItem struct {
	// PartID identifies the uploaded part
	PartID string `json:"part_id"`

	// Process is the requested manufacturing process
	Process ProcessKind `json:"process"`

	// Quantity is the number of parts (>= 1)
	Quantity int `json:"quantity"`

	// MaterialID selects the material (required)
	MaterialID string `json:"material_id"`

	// FinishID selects an optional surface finish
	FinishID string `json:"finish_id,omitempty"`

	// ToleranceID selects an optional tolerance class
	ToleranceID string `json:"tolerance_id,omitempty"`

	// LeadTime is the requested lead-time class
	LeadTime LeadTimeClass `json:"lead_time"`

	// Region selects the rate card
	Region string `json:"region,omitempty"`

	// Geometry is the extracted geometry summary (required)
	Geometry *Geometry `json:"geometry"`

	// Certifications lists requested process certifications
	Certifications []string `json:"certifications,omitempty"`

	// Purpose is the declared end use (e.g. "machining" for cast blanks)
	Purpose string `json:"purpose,omitempty"`
}

// Validate checks the fields the pricing core cannot default
func (q *QuoteItem) Validate() error {
	if q.Quantity < 1 {
		return shoperrors.Validationf("quantity must be >= 1, got %d", q.Quantity)
	}
	if !q.Process.Valid() {
		return shoperrors.Validationf("unknown process kind %q", q.Process)
	}
	if !q.Geometry.Valid() {
		return shoperrors.Validation("geometry summary is missing or malformed")
	}
	if q.MaterialID == "" {
		return shoperrors.Validation("material is required")
	}
	if q.LeadTime == "" {
		q.LeadTime = LeadStandard
	}
	return nil
}
