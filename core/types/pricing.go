// Package types - Pricing result types
package types

import (
	"github.com/shopspring/decimal"
)

// Line item descriptions, in the order they are appended. The breakdown
// is auditable: base process lines plus every adjustment line sum to the
// subtotal.
const (
	LineMachining  = "machining"
	LineMaterial   = "material"
	LineFinish     = "finish"
	LineSetup      = "setup"
	LinePress      = "press"
	LineTooling    = "tooling"
	LineChangeover = "changeover"
	LineMelt       = "melt"
	LineMold       = "mold"

	LineQuantityDiscount = "quantity_discount"
	LineTolerance        = "tolerance_adjustment"
	LineOverhead         = "overhead"
	LineExpedite         = "expedite"
	LineMargin           = "margin"
	LineTierAdjustment   = "tier_adjustment"

	LineTax      = "tax"
	LineShipping = "shipping"
)

// WarnNoMatchingMachine is attached when rate-card fallback pricing is used
const WarnNoMatchingMachine = "no_matching_machine_using_rate_card"

// CostLine is a single named amount in the price derivation.
// Discount lines carry negative amounts.
type CostLine struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// PricingResult is the full output of pricing one quantity.
// Computed fresh per request; never persisted by this core.
// Invariant: Total = Subtotal + Tax + Shipping exactly.
type PricingResult struct {
	// Quantity priced
	Quantity int `json:"quantity"`

	// UnitPrice is Total / Quantity
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Subtotal is the accumulated process cost plus adjustments
	Subtotal decimal.Decimal `json:"subtotal"`

	// Tax is Subtotal x rate-card tax rate
	Tax decimal.Decimal `json:"tax"`

	// Shipping is the flat regional shipping fee
	Shipping decimal.Decimal `json:"shipping"`

	// Total is Subtotal + Tax + Shipping
	Total decimal.Decimal `json:"total"`

	// MachineID is the chosen machine; "rate-card" for fallback pricing
	MachineID string `json:"machine_id"`

	// MachineName is the chosen machine display name
	MachineName string `json:"machine_name"`

	// LeadDays is the promised lead time in days
	LeadDays int `json:"lead_days"`

	// Lines is the ordered, auditable cost derivation
	Lines []CostLine `json:"lines"`

	// Warnings carries feasibility and fallback notices
	Warnings []Warning `json:"warnings,omitempty"`

	// UsedRateCard reports fallback pricing
	UsedRateCard bool `json:"used_rate_card,omitempty"`
}

// Breakdown returns a flat description -> amount map for display.
// Repeated descriptions accumulate.
func (r *PricingResult) Breakdown() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Lines)+2)
	for _, l := range r.Lines {
		out[l.Description] = out[l.Description].Add(l.Amount)
	}
	out[LineTax] = r.Tax
	out[LineShipping] = r.Shipping
	return out
}

// LineTotal sums all line amounts; equals Subtotal when the derivation
// is consistent
func (r *PricingResult) LineTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range r.Lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}
