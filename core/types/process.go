// Package types defines the shared domain types for quoting.
package types

// ProcessKind is the specific manufacturing process requested on a quote item
type ProcessKind string

const (
	ProcessCNCMilling       ProcessKind = "cnc_milling"
	ProcessCNCTurning       ProcessKind = "cnc_turning"
	ProcessInjectionMolding ProcessKind = "injection_molding"
	ProcessCasting          ProcessKind = "casting"
	ProcessDieCasting       ProcessKind = "die_casting"
	ProcessSLS              ProcessKind = "sls"
	ProcessSLA              ProcessKind = "sla"
	ProcessFDM              ProcessKind = "fdm"
	ProcessSheetMetal       ProcessKind = "sheet_metal"
)

// String returns the string representation
func (p ProcessKind) String() string {
	return string(p)
}

// ProcessFamily is the coarse process family a machine belongs to.
// Pricing and feasibility operate at family granularity.
type ProcessFamily string

const (
	FamilyCNC        ProcessFamily = "cnc"
	FamilyInjection  ProcessFamily = "injection"
	FamilyCasting    ProcessFamily = "casting"
	FamilyAdditive   ProcessFamily = "additive"
	FamilySheetMetal ProcessFamily = "sheet_metal"
)

// Family returns the process family for a process kind
func (p ProcessKind) Family() ProcessFamily {
	switch p {
	case ProcessCNCMilling, ProcessCNCTurning:
		return FamilyCNC
	case ProcessInjectionMolding:
		return FamilyInjection
	case ProcessCasting, ProcessDieCasting:
		return FamilyCasting
	case ProcessSLS, ProcessSLA, ProcessFDM:
		return FamilyAdditive
	case ProcessSheetMetal:
		return FamilySheetMetal
	}
	return ""
}

// IsCNC reports whether the process is a CNC machining process
func (p ProcessKind) IsCNC() bool {
	return p.Family() == FamilyCNC
}

// IsAdditive reports whether the process is an additive process
func (p ProcessKind) IsAdditive() bool {
	return p.Family() == FamilyAdditive
}

// IsCastingFamily reports whether the process is a casting process
func (p ProcessKind) IsCastingFamily() bool {
	return p.Family() == FamilyCasting
}

// Valid reports whether the process kind is known
func (p ProcessKind) Valid() bool {
	return p.Family() != ""
}

// LeadTimeClass selects the scheduling window and expedite premium
type LeadTimeClass string

const (
	LeadStandard LeadTimeClass = "standard"
	LeadExpedite LeadTimeClass = "expedite"
)

// Severity grades warnings and DFM suggestions
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Warning is a non-fatal, severity-graded signal attached to results.
// Warnings are returned alongside results, never raised as errors.
type Warning struct {
	// Code is a stable machine-readable identifier
	Code string `json:"code"`

	// Severity grades the warning
	Severity Severity `json:"severity"`

	// Message is the human-readable description
	Message string `json:"message"`

	// Metric is the measured value that triggered the warning
	Metric *float64 `json:"metric,omitempty"`

	// Limit is the threshold the metric was compared against
	Limit *float64 `json:"limit,omitempty"`
}

// HasError reports whether any warning carries error severity
func HasError(warnings []Warning) bool {
	for _, w := range warnings {
		if w.Severity == SeverityError {
			return true
		}
	}
	return false
}
