// Package types - Catalog reference data: machines, materials, finishes,
// tolerances, rate cards and compatibility links.
package types

// Material is read-only material reference data
type Material struct {
	// ID uniquely identifies the material
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// DensityKgM3 is the density in kg/m3. Zero means unknown; feasibility
	// checks that need mass degrade to an info note rather than failing.
	DensityKgM3 float64 `json:"density_kg_m3"`

	// CostPerKg is the material cost per kilogram
	CostPerKg float64 `json:"cost_per_kg"`

	// Machinability scales CNC machining time (1.0 = baseline)
	Machinability float64 `json:"machinability"`
}

// MachinabilityOrDefault returns the machinability factor, defaulting to 1.0
func (m *Material) MachinabilityOrDefault() float64 {
	if m.Machinability <= 0 {
		return 1.0
	}
	return m.Machinability
}

// Finish is an optional surface finish
type Finish struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// CostPerM2 is the finishing cost per square meter of surface
	CostPerM2 float64 `json:"cost_per_m2"`

	// SetupFee is charged once per run
	SetupFee float64 `json:"setup_fee"`
}

// Tolerance is an optional tolerance class
type Tolerance struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// ValueMM is the tolerance band in millimeters
	ValueMM float64 `json:"value_mm"`

	// CostMultiplier scales the subtotal (1.0 = no effect)
	CostMultiplier float64 `json:"cost_multiplier"`
}

// RateCard holds regional default rates. It is used only as a fallback
// when no catalog machine matches a request.
type RateCard struct {
	// Region identifies the rate card
	Region string `json:"region"`

	// ThreeAxisRate is the default 3-axis per-minute machine rate
	ThreeAxisRate float64 `json:"three_axis_rate"`

	// FiveAxisRate is the default 5-axis per-minute machine rate
	FiveAxisRate float64 `json:"five_axis_rate"`

	// TaxRate is the sales tax fraction applied to the subtotal
	TaxRate float64 `json:"tax_rate"`

	// ShippingFlat is the flat shipping fee
	ShippingFlat float64 `json:"shipping_flat"`
}

// Envelope is the largest part a machine accepts, in mm
type Envelope struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Fits reports whether a bounding box fits in the envelope
func (e Envelope) Fits(b BoundingBox) bool {
	return b.X <= e.X && b.Y <= e.Y && b.Z <= e.Z
}

// OverageRatio returns the largest per-axis overage ratio of box over
// envelope; 1.0 means an exact fit, values above 1.0 exceed the envelope
func (e Envelope) OverageRatio(b BoundingBox) float64 {
	ratio := b.X / e.X
	if r := b.Y / e.Y; r > ratio {
		ratio = r
	}
	if r := b.Z / e.Z; r > ratio {
		ratio = r
	}
	return ratio
}

// CNCParams are CNC-specific machine parameters
type CNCParams struct {
	// ToolChangeMin is the fixed tool-change time amortized per run
	ToolChangeMin float64 `json:"tool_change_min"`

	// FiveAxisFactor scales machining time on 5-axis machines (<1)
	FiveAxisFactor float64 `json:"five_axis_factor"`
}

// InjectionParams are injection-molding machine parameters
type InjectionParams struct {
	// RunnerFraction is the runner/sprue waste fraction of shot volume
	RunnerFraction float64 `json:"runner_fraction"`

	// CycleBaseSec is the fixed portion of the molding cycle
	CycleBaseSec float64 `json:"cycle_base_sec"`

	// CycleSecPerCm3 is the per-volume portion of the molding cycle
	CycleSecPerCm3 float64 `json:"cycle_sec_per_cm3"`

	// ToolingFixed is the fixed mold tooling cost
	ToolingFixed float64 `json:"tooling_fixed"`

	// ToolingPerCm3 is the volume-dependent mold tooling cost
	ToolingPerCm3 float64 `json:"tooling_per_cm3"`

	// ToolLifeShots is the rated mold life in shots
	ToolLifeShots int `json:"tool_life_shots"`

	// ShotCapacityCm3 is the largest shot the press can fill
	ShotCapacityCm3 float64 `json:"shot_capacity_cm3"`

	// MinTonnage and MaxTonnage bound the press clamp force
	MinTonnage float64 `json:"min_tonnage"`
	MaxTonnage float64 `json:"max_tonnage"`

	// ChangeoverMin is the fixed mold changeover time
	ChangeoverMin float64 `json:"changeover_min"`
}

// CastingParams are casting line parameters
type CastingParams struct {
	// MeltRateKgPerMin is the furnace melt throughput
	MeltRateKgPerMin float64 `json:"melt_rate_kg_per_min"`

	// YieldFraction is the pour yield (net mass / poured mass)
	YieldFraction float64 `json:"yield_fraction"`

	// ScrapFraction is the expected scrap allowance
	ScrapFraction float64 `json:"scrap_fraction"`

	// MoldCostPerUnit is the per-part mold consumable cost
	MoldCostPerUnit float64 `json:"mold_cost_per_unit"`

	// MoldSetupFee is charged once per run
	MoldSetupFee float64 `json:"mold_setup_fee"`

	// MaxGrossKg is the largest gross pour the line accepts
	MaxGrossKg float64 `json:"max_gross_kg"`
}

// Machine is a catalog machine. Process-specific parameters live in
// narrowly-typed sub-structs so a cost model never reads fields that do
// not apply to its family.
type Machine struct {
	// ID uniquely identifies the machine
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// Family is the process family the machine serves
	Family ProcessFamily `json:"family"`

	// Axes is the axis count for CNC machines
	Axes int `json:"axes"`

	// Envelope is the largest accepted part, when declared
	Envelope *Envelope `json:"envelope,omitempty"`

	// RatePerMin is the machine per-minute rate
	RatePerMin float64 `json:"rate_per_min"`

	// SetupFee is charged once per run
	SetupFee float64 `json:"setup_fee"`

	// OverheadMult scales the subtotal for shop overhead (>=1)
	OverheadMult float64 `json:"overhead_mult"`

	// ExpediteMult scales the subtotal for expedited lead time (>=1)
	ExpediteMult float64 `json:"expedite_mult"`

	// MarginPct adds margin on top of the subtotal (fraction)
	MarginPct float64 `json:"margin_pct"`

	// UtilizationTarget divides time-based cost (<1 inflates cost)
	UtilizationTarget float64 `json:"utilization_target"`

	// Active machines are candidates; inactive machines never are
	Active bool `json:"active"`

	// CNC parameters, present for FamilyCNC machines
	CNC *CNCParams `json:"cnc,omitempty"`

	// Injection parameters, present for FamilyInjection machines
	Injection *InjectionParams `json:"injection,omitempty"`

	// Casting parameters, present for FamilyCasting machines
	Casting *CastingParams `json:"casting,omitempty"`
}

// UtilizationOrDefault returns the utilization target, defaulting to 1.0
func (m *Machine) UtilizationOrDefault() float64 {
	if m.UtilizationTarget <= 0 || m.UtilizationTarget > 1 {
		return 1.0
	}
	return m.UtilizationTarget
}

// OverheadOrDefault returns the overhead multiplier, defaulting to 1.0
func (m *Machine) OverheadOrDefault() float64 {
	if m.OverheadMult <= 0 {
		return 1.0
	}
	return m.OverheadMult
}

// MachineMaterialLink declares that a machine can run a material.
// Absence of any link row for a machine means no restriction.
type MachineMaterialLink struct {
	MachineID  string `json:"machine_id"`
	MaterialID string `json:"material_id"`

	// RateMultiplier adjusts the machine rate for this material (default 1.0)
	RateMultiplier float64 `json:"rate_multiplier"`
}

// MachineFinishLink declares that a machine can apply a finish
type MachineFinishLink struct {
	MachineID string `json:"machine_id"`
	FinishID  string `json:"finish_id"`

	// RateMultiplier adjusts the finish setup fee for this machine (default 1.0)
	RateMultiplier float64 `json:"rate_multiplier"`
}
