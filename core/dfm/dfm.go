// Package dfm is the design-for-manufacturability rule engine.
// A fixed, ordered table of independent rules runs against a geometry
// and process context; each rule is a predicate/evaluator pair, so new
// checks are added by registering a rule, never by editing existing
// logic. Independent of pricing.
package dfm

import (
	"shopquote/core/types"
)

// Category classifies what a suggestion affects
type Category string

const (
	CategoryFeasibility       Category = "feasibility"
	CategoryManufacturability Category = "manufacturability"
	CategoryCost              Category = "cost"
	CategoryReliability       Category = "reliability"
)

// OverlayKind selects how a viewer renders an overlay
type OverlayKind string

const (
	OverlayHeatMap OverlayKind = "heatmap"
	OverlayMarkers OverlayKind = "markers"
	OverlayShell   OverlayKind = "shell"
	OverlayBBox    OverlayKind = "bbox"
)

// Overlay is a renderable annotation attached to a suggestion. The core
// only describes it; rendering belongs to the external viewer.
type Overlay struct {
	// Kind is the overlay type
	Kind OverlayKind `json:"kind"`

	// Field names the per-vertex scalar field for heat maps
	Field string `json:"field,omitempty"`

	// Threshold is the field value the heat map should emphasize
	Threshold float64 `json:"threshold,omitempty"`

	// Points are marker positions in part coordinates
	Points []types.Point3 `json:"points,omitempty"`
}

// Suggestion is one manufacturability finding
type Suggestion struct {
	// ID is the stable rule identifier that produced the suggestion
	ID string `json:"id"`

	// Message is the human-readable finding
	Message string `json:"message"`

	// Severity grades the finding
	Severity types.Severity `json:"severity"`

	// Category classifies the finding
	Category Category `json:"category"`

	// Metric is the measured value, when numeric
	Metric *float64 `json:"metric,omitempty"`

	// MetricLabel names the metric unit or meaning
	MetricLabel string `json:"metric_label,omitempty"`

	// Overlay is an optional visual annotation
	Overlay *Overlay `json:"overlay,omitempty"`
}

// Context is everything a rule may inspect. Rules are pure functions of
// this context.
type Context struct {
	// Process is the requested manufacturing process
	Process types.ProcessKind

	// Geometry is the extracted geometry summary
	Geometry *types.Geometry

	// Material is the selected material, when resolved
	Material *types.Material

	// ToleranceMM is the requested tolerance band, when any
	ToleranceMM *float64

	// Certifications lists requested process certifications
	Certifications []string

	// Purpose is the declared end use of the part
	Purpose string
}

// Rule is one independent, stateless manufacturability check
type Rule interface {
	// ID returns the stable rule identifier
	ID() string

	// Applies reports whether the rule is relevant to the context
	Applies(*Context) bool

	// Evaluate returns a suggestion, or nil when the check passes
	Evaluate(*Context) *Suggestion
}

// Result is the outcome of one analysis
type Result struct {
	// OK is true iff no suggestion has error severity
	OK bool `json:"ok"`

	// Suggestions lists every triggered finding, in rule order
	Suggestions []*Suggestion `json:"suggestions,omitempty"`

	// Overlays collects the overlays referenced by suggestions
	Overlays []*Overlay `json:"overlays,omitempty"`
}
