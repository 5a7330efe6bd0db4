// Package feasibility checks whether a quote item can physically run on
// a candidate machine. Checks are pure functions of their inputs and
// never mutate anything; violations come back as severity-graded
// warnings, with ok false only on error severity.
package feasibility

import (
	"fmt"

	"shopquote/core/types"
)

// Clamp tonnage rule of thumb: tons per cm2 of projected area
const tonnagePerCm2 = 0.015

// meltShiftMinutes is the single-shift melt budget used for the
// throughput warning
const meltShiftMinutes = 480.0

// Result is the outcome of a feasibility check
type Result struct {
	// OK is true iff no warning has error severity
	OK bool `json:"ok"`

	// Warnings lists every triggered signal, hard or soft
	Warnings []types.Warning `json:"warnings,omitempty"`
}

// Check evaluates one machine against one quote item. Material may be
// nil when the caller could not resolve it; mass-based checks then
// degrade to an info note instead of silently passing.
func Check(item *types.QuoteItem, machine *types.Machine, material *types.Material) Result {
	var warnings []types.Warning

	switch machine.Family {
	case types.FamilyCNC:
		warnings = checkCNC(item.Geometry, machine, warnings)
	case types.FamilyInjection:
		warnings = checkInjection(item, machine, warnings)
	case types.FamilyCasting:
		warnings = checkCasting(item, machine, material, warnings)
	}

	return Result{
		OK:       !types.HasError(warnings),
		Warnings: warnings,
	}
}

func checkCNC(geom *types.Geometry, machine *types.Machine, warnings []types.Warning) []types.Warning {
	if machine.Envelope == nil {
		return warnings
	}
	if machine.Envelope.Fits(geom.BBox) {
		return warnings
	}
	ratio := machine.Envelope.OverageRatio(geom.BBox)
	limit := 1.0
	return append(warnings, types.Warning{
		Code:     "part_exceeds_envelope",
		Severity: types.SeverityError,
		Message: fmt.Sprintf("part %.0fx%.0fx%.0f mm exceeds machine envelope %.0fx%.0fx%.0f mm",
			geom.BBox.X, geom.BBox.Y, geom.BBox.Z,
			machine.Envelope.X, machine.Envelope.Y, machine.Envelope.Z),
		Metric: &ratio,
		Limit:  &limit,
	})
}

func checkInjection(item *types.QuoteItem, machine *types.Machine, warnings []types.Warning) []types.Warning {
	p := machine.Injection
	if p == nil {
		return warnings
	}

	tonnage := RequiredTonnage(item.Geometry, p.RunnerFraction)
	if p.MinTonnage > 0 && tonnage < p.MinTonnage {
		minTon := p.MinTonnage
		warnings = append(warnings, types.Warning{
			Code:     "below_press_min_tonnage",
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("required clamp tonnage %.1ft is below the press minimum %.1ft", tonnage, p.MinTonnage),
			Metric:   &tonnage,
			Limit:    &minTon,
		})
	}
	if p.MaxTonnage > 0 && tonnage > p.MaxTonnage {
		maxTon := p.MaxTonnage
		warnings = append(warnings, types.Warning{
			Code:     "exceeds_press_max_tonnage",
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("required clamp tonnage %.1ft exceeds the press maximum %.1ft", tonnage, p.MaxTonnage),
			Metric:   &tonnage,
			Limit:    &maxTon,
		})
	}

	if p.ToolLifeShots > 0 && item.Quantity > p.ToolLifeShots {
		qty := float64(item.Quantity)
		life := float64(p.ToolLifeShots)
		warnings = append(warnings, types.Warning{
			Code:     "exceeds_tool_life",
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("quantity %d exceeds rated tool life of %d shots; retooling will be required", item.Quantity, p.ToolLifeShots),
			Metric:   &qty,
			Limit:    &life,
		})
	}
	return warnings
}

func checkCasting(item *types.QuoteItem, machine *types.Machine, material *types.Material, warnings []types.Warning) []types.Warning {
	p := machine.Casting
	if p == nil {
		return warnings
	}

	if material == nil || material.DensityKgM3 <= 0 {
		// Absence of data is not infeasibility, but the caller must know
		// the melt check did not run.
		return append(warnings, types.Warning{
			Code:     "melt_check_skipped",
			Severity: types.SeverityInfo,
			Message:  "material density unknown; melt mass check skipped",
		})
	}

	grossKg := types.GrossMassKg(
		types.NetMassKg(item.Geometry.VolumeMM3, material.DensityKgM3),
		p.YieldFraction, p.ScrapFraction)

	if p.MeltRateKgPerMin > 0 {
		meltMinutes := grossKg * float64(item.Quantity) / p.MeltRateKgPerMin
		if meltMinutes > meltShiftMinutes {
			budget := meltShiftMinutes
			warnings = append(warnings, types.Warning{
				Code:     "exceeds_melt_capacity",
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("run needs %.0f min of melt time, above the %.0f min shift capacity", meltMinutes, budget),
				Metric:   &meltMinutes,
				Limit:    &budget,
			})
		}
	}
	return warnings
}

// RequiredTonnage estimates press clamp force from projected XY area.
// Boundary is inclusive: a part needing exactly the machine minimum is
// not a violation.
func RequiredTonnage(geom *types.Geometry, runnerFraction float64) float64 {
	return geom.ProjectedAreaCM2() * tonnagePerCm2 * (1 + runnerFraction)
}
