// Package pricing - Per-process cost models.
// Each process family is a separate pure function over a narrowly-typed
// input struct, so "is this field relevant here" is answered by the type
// system rather than at runtime.
package pricing

import (
	"math"

	"shopquote/core/types"
)

// CNC machining time model constants: minutes per m2 of surface swept
// and minutes per unit of removed stock (35% of part volume)
const (
	cncMinPerM2          = 6.0
	cncMinPerRemovedUnit = 8.0
	cncRemovedFraction   = 0.35
)

// rawLine is a cost line before decimal conversion
type rawLine struct {
	desc   string
	amount float64
}

// processCost is the output of one per-process cost model
type processCost struct {
	lines []rawLine

	// runMinutes is the machine time the full run occupies, used for
	// lead-day estimation and capacity reservation
	runMinutes float64
}

// cncInput parameterizes the CNC (milling/turning) cost model
type cncInput struct {
	geom         *types.Geometry
	quantity     int
	material     *types.Material
	finish       *types.Finish
	params       types.CNCParams
	axes         int
	ratePerMin   float64
	setupFee     float64
	utilization  float64
	materialMult float64
	finishMult   float64
}

func cncCost(in cncInput) processCost {
	areaM2 := in.geom.SurfaceAreaMM2 / 1e6
	removed := in.geom.VolumeMM3 * cncRemovedFraction / 1e9

	perUnitMin := cncMinPerM2*areaM2 + cncMinPerRemovedUnit*removed
	if in.axes >= 5 && in.params.FiveAxisFactor > 0 {
		perUnitMin *= in.params.FiveAxisFactor
	}
	perUnitMin *= in.material.MachinabilityOrDefault()
	perUnitMin += in.params.ToolChangeMin / float64(in.quantity)

	qty := float64(in.quantity)
	machining := perUnitMin * qty * in.ratePerMin * in.materialMult / in.utilization

	lines := []rawLine{
		{types.LineMachining, machining},
		{types.LineMaterial, types.NetMassKg(in.geom.VolumeMM3, in.material.DensityKgM3) * qty * in.material.CostPerKg},
	}
	lines = appendFinish(lines, in.geom, in.finish, in.quantity, in.finishMult)
	if in.setupFee > 0 {
		lines = append(lines, rawLine{types.LineSetup, in.setupFee})
	}

	return processCost{lines: lines, runMinutes: perUnitMin * qty}
}

// injectionInput parameterizes the injection molding cost model
type injectionInput struct {
	geom         *types.Geometry
	quantity     int
	material     *types.Material
	params       types.InjectionParams
	ratePerMin   float64
	utilization  float64
	materialMult float64
}

func injectionCost(in injectionInput) processCost {
	qty := float64(in.quantity)

	shotVolMM3 := in.geom.VolumeMM3 * (1 + in.params.RunnerFraction)
	cycleSec := in.params.CycleBaseSec + in.params.CycleSecPerCm3*(shotVolMM3/1000)

	hourlyRate := in.ratePerMin * 60
	press := cycleSec / 3600 * hourlyRate * qty * in.materialMult / in.utilization

	// Material includes runner waste
	material := types.NetMassKg(shotVolMM3, in.material.DensityKgM3) * in.material.CostPerKg * qty

	toolingBase := in.params.ToolingFixed + in.params.ToolingPerCm3*(in.geom.VolumeMM3/1000)
	amortizeOver := in.quantity
	if in.params.ToolLifeShots > 0 && in.params.ToolLifeShots < amortizeOver {
		amortizeOver = in.params.ToolLifeShots
	}
	tooling := toolingBase / float64(amortizeOver) * qty

	changeover := in.params.ChangeoverMin * in.ratePerMin

	lines := []rawLine{
		{types.LinePress, press},
		{types.LineMaterial, material},
		{types.LineTooling, tooling},
		{types.LineChangeover, changeover},
	}
	return processCost{lines: lines, runMinutes: cycleSec / 60 * qty}
}

// castingInput parameterizes the casting cost model
type castingInput struct {
	geom         *types.Geometry
	quantity     int
	material     *types.Material
	finish       *types.Finish
	params       types.CastingParams
	ratePerMin   float64
	utilization  float64
	materialMult float64
	finishMult   float64
}

func castingCost(in castingInput) processCost {
	qty := float64(in.quantity)

	netKg := types.NetMassKg(in.geom.VolumeMM3, in.material.DensityKgM3)
	grossKg := types.GrossMassKg(netKg, in.params.YieldFraction, in.params.ScrapFraction)

	material := grossKg * in.material.CostPerKg * qty

	var meltMinutes float64
	if in.params.MeltRateKgPerMin > 0 {
		meltMinutes = grossKg * qty / in.params.MeltRateKgPerMin
	}
	melt := meltMinutes / in.utilization * in.ratePerMin * in.materialMult

	mold := in.params.MoldCostPerUnit*qty + in.params.MoldSetupFee

	lines := []rawLine{
		{types.LineMelt, melt},
		{types.LineMaterial, material},
		{types.LineMold, mold},
	}
	lines = appendFinish(lines, in.geom, in.finish, in.quantity, in.finishMult)

	return processCost{lines: lines, runMinutes: meltMinutes}
}

func appendFinish(lines []rawLine, geom *types.Geometry, finish *types.Finish, quantity int, finishMult float64) []rawLine {
	if finish == nil {
		return lines
	}
	cost := geom.SurfaceAreaMM2/1e6*finish.CostPerM2*float64(quantity) + finish.SetupFee*finishMult
	return append(lines, rawLine{types.LineFinish, cost})
}

// quantityDiscount is the universal volume discount curve: diminishing
// savings that never exceed 20%, zero at quantity 1
func quantityDiscount(quantity int) float64 {
	if quantity <= 1 {
		return 0
	}
	d := 1 - 1/math.Sqrt(float64(quantity))
	if d > 0.20 {
		d = 0.20
	}
	return d
}
