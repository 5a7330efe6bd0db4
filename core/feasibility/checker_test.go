// Package feasibility - Checker tests.
// Boundary cases are the point: exact-limit parts pass, absence of
// data degrades to info, and only hard physical limits flip ok.
package feasibility

import (
	"testing"

	"shopquote/core/types"
)

func cncItem(bbox types.BoundingBox) *types.QuoteItem {
	return &types.QuoteItem{
		PartID:     "part-1",
		Process:    types.ProcessCNCMilling,
		Quantity:   1,
		MaterialID: "alloy",
		Geometry: &types.Geometry{
			VolumeMM3:      1_000_000,
			SurfaceAreaMM2: 6000,
			BBox:           bbox,
		},
	}
}

func findWarning(warnings []types.Warning, code string) *types.Warning {
	for i := range warnings {
		if warnings[i].Code == code {
			return &warnings[i]
		}
	}
	return nil
}

func TestEnvelopeFitPasses(t *testing.T) {
	m := &types.Machine{
		Family:   types.FamilyCNC,
		Envelope: &types.Envelope{X: 100, Y: 100, Z: 100},
	}
	res := Check(cncItem(types.BoundingBox{X: 100, Y: 100, Z: 100}), m, nil)
	if !res.OK || len(res.Warnings) != 0 {
		t.Errorf("exact-fit part must pass, got ok=%v warnings=%v", res.OK, res.Warnings)
	}
}

func TestEnvelopeOverageIsError(t *testing.T) {
	m := &types.Machine{
		Family:   types.FamilyCNC,
		Envelope: &types.Envelope{X: 50, Y: 50, Z: 50},
	}
	res := Check(cncItem(types.BoundingBox{X: 100, Y: 40, Z: 40}), m, nil)
	if res.OK {
		t.Error("oversized part must fail the check")
	}
	w := findWarning(res.Warnings, "part_exceeds_envelope")
	if w == nil {
		t.Fatal("expected part_exceeds_envelope")
	}
	if w.Severity != types.SeverityError {
		t.Errorf("envelope overage severity: %s", w.Severity)
	}
	if w.Metric == nil || *w.Metric != 2.0 {
		t.Errorf("expected overage ratio 2.0, got %v", w.Metric)
	}
}

func TestClampTonnageBoundaryIsInclusive(t *testing.T) {
	item := cncItem(types.BoundingBox{X: 100, Y: 100, Z: 20})
	item.Process = types.ProcessInjectionMolding

	// 100 cm2 projected at 0.015 t/cm2 needs exactly 1.5 t.
	m := &types.Machine{
		Family:    types.FamilyInjection,
		Injection: &types.InjectionParams{MinTonnage: 1.5, MaxTonnage: 100},
	}
	res := Check(item, m, nil)
	if !res.OK || len(res.Warnings) != 0 {
		t.Errorf("part needing exactly the press minimum must pass, got %v", res.Warnings)
	}

	m.Injection.MinTonnage = 1.6
	res = Check(item, m, nil)
	w := findWarning(res.Warnings, "below_press_min_tonnage")
	if w == nil {
		t.Fatal("expected below_press_min_tonnage")
	}
	if w.Severity != types.SeverityWarning {
		t.Errorf("undersized press fit is advisory, got %s", w.Severity)
	}
	if !res.OK {
		t.Error("a below-minimum press is still usable; ok must stay true")
	}
}

func TestClampTonnageAboveMaxIsError(t *testing.T) {
	item := cncItem(types.BoundingBox{X: 1000, Y: 1000, Z: 20})
	item.Process = types.ProcessInjectionMolding

	m := &types.Machine{
		Family:    types.FamilyInjection,
		Injection: &types.InjectionParams{MaxTonnage: 100},
	}
	res := Check(item, m, nil)
	if res.OK {
		t.Error("part over the press maximum must fail")
	}
	if findWarning(res.Warnings, "exceeds_press_max_tonnage") == nil {
		t.Error("expected exceeds_press_max_tonnage")
	}
}

func TestToolLifeWarning(t *testing.T) {
	item := cncItem(types.BoundingBox{X: 10, Y: 10, Z: 10})
	item.Process = types.ProcessInjectionMolding
	item.Quantity = 1000

	m := &types.Machine{
		Family:    types.FamilyInjection,
		Injection: &types.InjectionParams{ToolLifeShots: 500},
	}
	res := Check(item, m, nil)
	w := findWarning(res.Warnings, "exceeds_tool_life")
	if w == nil {
		t.Fatal("expected exceeds_tool_life")
	}
	if !res.OK {
		t.Error("tool life is a soft limit; ok must stay true")
	}
}

func TestMeltCheckSkippedWithoutDensity(t *testing.T) {
	item := cncItem(types.BoundingBox{X: 100, Y: 100, Z: 100})
	item.Process = types.ProcessCasting

	m := &types.Machine{
		Family:  types.FamilyCasting,
		Casting: &types.CastingParams{MeltRateKgPerMin: 10},
	}

	for _, material := range []*types.Material{nil, {ID: "x"}} {
		res := Check(item, m, material)
		w := findWarning(res.Warnings, "melt_check_skipped")
		if w == nil {
			t.Fatal("expected melt_check_skipped without density")
		}
		if w.Severity != types.SeverityInfo {
			t.Errorf("skipped check is informational, got %s", w.Severity)
		}
		if !res.OK {
			t.Error("missing data must not flip ok")
		}
	}
}

func TestMeltCapacityWarning(t *testing.T) {
	item := cncItem(types.BoundingBox{X: 100, Y: 100, Z: 100})
	item.Process = types.ProcessCasting
	item.Quantity = 40

	m := &types.Machine{
		Family: types.FamilyCasting,
		Casting: &types.CastingParams{
			MeltRateKgPerMin: 1,
			YieldFraction:    0.8,
			ScrapFraction:    0.25,
		},
	}
	material := &types.Material{ID: "iron", DensityKgM3: 8000}

	// 12.5 kg gross per part, 40 parts at 1 kg/min is 500 melt
	// minutes, over the shift budget.
	res := Check(item, m, material)
	w := findWarning(res.Warnings, "exceeds_melt_capacity")
	if w == nil {
		t.Fatal("expected exceeds_melt_capacity")
	}
	if w.Limit == nil || *w.Limit != 480 {
		t.Errorf("expected shift budget limit 480, got %v", w.Limit)
	}
	if !res.OK {
		t.Error("melt throughput is a soft limit; ok must stay true")
	}

	item.Quantity = 10
	if res := Check(item, m, material); len(res.Warnings) != 0 {
		t.Errorf("run within the shift budget must be clean, got %v", res.Warnings)
	}
}

func TestRequiredTonnageIncludesRunner(t *testing.T) {
	geom := &types.Geometry{BBox: types.BoundingBox{X: 100, Y: 100}}

	if got := RequiredTonnage(geom, 0); got != 1.5 {
		t.Errorf("expected 1.5 t, got %v", got)
	}
	if got := RequiredTonnage(geom, 0.5); got != 2.25 {
		t.Errorf("runner fraction must inflate tonnage, got %v", got)
	}
}
