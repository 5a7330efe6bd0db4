// Package dfm - Rule set tests.
// Each rule is exercised just over and just under its threshold.
package dfm

import (
	"testing"

	"shopquote/core/types"
)

func fp(v float64) *float64 { return &v }

func baseGeometry() *types.Geometry {
	return &types.Geometry{
		VolumeMM3:      1000,
		SurfaceAreaMM2: 600,
		BBox:           types.BoundingBox{X: 10, Y: 10, Z: 10},
	}
}

func dfmContext(process types.ProcessKind, geom *types.Geometry) *Context {
	return &Context{Process: process, Geometry: geom}
}

func findSuggestion(res Result, id string) *Suggestion {
	for _, s := range res.Suggestions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func TestCleanGeometryPasses(t *testing.T) {
	res := Analyze(dfmContext(types.ProcessCNCMilling, baseGeometry()))
	if !res.OK || len(res.Suggestions) != 0 {
		t.Errorf("geometry with no feature metrics must pass, got %+v", res.Suggestions)
	}
}

func TestThinWall(t *testing.T) {
	geom := baseGeometry()
	geom.WallThicknessMM = fp(0.79)

	res := Analyze(dfmContext(types.ProcessCNCMilling, geom))
	s := findSuggestion(res, "thin_wall")
	if s == nil {
		t.Fatal("expected thin_wall below 0.8 mm")
	}
	if s.Severity != types.SeverityError || res.OK {
		t.Error("thin wall on CNC is a hard failure")
	}
	if s.Overlay == nil || s.Overlay.Kind != OverlayHeatMap {
		t.Error("thin wall must carry a heat-map overlay")
	}
	if len(res.Overlays) != 1 {
		t.Errorf("expected 1 collected overlay, got %d", len(res.Overlays))
	}

	geom.WallThicknessMM = fp(0.8)
	if res := Analyze(dfmContext(types.ProcessCNCMilling, geom)); !res.OK {
		t.Error("wall at exactly 0.8 mm must pass")
	}
}

func TestThinWallPowderBedLimit(t *testing.T) {
	geom := baseGeometry()
	geom.WallThicknessMM = fp(1.1)

	// 1.1 mm passes CNC but is under the 1.2 mm powder-bed limit.
	if res := Analyze(dfmContext(types.ProcessCNCMilling, geom)); !res.OK {
		t.Error("1.1 mm wall is fine for CNC")
	}
	res := Analyze(dfmContext(types.ProcessSLS, geom))
	if findSuggestion(res, "thin_wall") == nil {
		t.Error("expected thin_wall for SLS at 1.1 mm")
	}
}

func TestDeepHole(t *testing.T) {
	geom := baseGeometry()
	geom.HoleDepthToDiameterRatio = fp(6.0)
	if res := Analyze(dfmContext(types.ProcessCNCTurning, geom)); len(res.Suggestions) != 0 {
		t.Error("6:1 hole is at the limit, not over it")
	}

	geom.HoleDepthToDiameterRatio = fp(6.1)
	res := Analyze(dfmContext(types.ProcessCNCTurning, geom))
	s := findSuggestion(res, "deep_hole")
	if s == nil || s.Severity != types.SeverityWarning {
		t.Error("expected deep_hole warning past 6:1")
	}
	if !res.OK {
		t.Error("deep holes are advisory")
	}
}

func TestSmallBoss(t *testing.T) {
	geom := baseGeometry()
	geom.MinBossDiameterMM = fp(0.9)

	res := Analyze(dfmContext(types.ProcessInjectionMolding, geom))
	s := findSuggestion(res, "small_boss")
	if s == nil || s.Severity != types.SeverityError {
		t.Fatal("expected small_boss error below 1 mm")
	}
	if res.OK {
		t.Error("unmoldable boss must flip ok")
	}

	// The rule is molding-specific.
	if res := Analyze(dfmContext(types.ProcessCNCMilling, geom)); len(res.Suggestions) != 0 {
		t.Error("boss rule must not fire for CNC")
	}
}

func TestOverhangMarkers(t *testing.T) {
	geom := baseGeometry()
	geom.MaxOverhangAngleDeg = fp(50)
	geom.OverhangFaceCentroids = []types.Point3{{X: 1, Y: 2, Z: 3}}

	res := Analyze(dfmContext(types.ProcessSLA, geom))
	s := findSuggestion(res, "overhang")
	if s == nil {
		t.Fatal("expected overhang past 45 degrees")
	}
	if s.Overlay == nil || s.Overlay.Kind != OverlayMarkers || len(s.Overlay.Points) != 1 {
		t.Error("overhang with centroids must carry a marker overlay")
	}

	geom.MaxOverhangAngleDeg = fp(45)
	if res := Analyze(dfmContext(types.ProcessSLA, geom)); len(res.Suggestions) != 0 {
		t.Error("45 degrees is self-supporting")
	}
}

func TestTightBend(t *testing.T) {
	geom := baseGeometry()
	geom.BendRadiusMM = fp(1)
	geom.SheetThicknessMM = fp(2)

	res := Analyze(dfmContext(types.ProcessSheetMetal, geom))
	if findSuggestion(res, "tight_bend") == nil {
		t.Error("bend radius under stock thickness must warn")
	}

	geom.BendRadiusMM = fp(2)
	if res := Analyze(dfmContext(types.ProcessSheetMetal, geom)); len(res.Suggestions) != 0 {
		t.Error("radius equal to thickness is fine")
	}
}

func TestLowDraft(t *testing.T) {
	geom := baseGeometry()
	geom.DraftAngleDeg = fp(0.5)

	for _, p := range []types.ProcessKind{types.ProcessCasting, types.ProcessDieCasting} {
		res := Analyze(dfmContext(p, geom))
		s := findSuggestion(res, "low_draft")
		if s == nil || s.Severity != types.SeverityError {
			t.Errorf("%s: expected low_draft error under 1 degree", p)
		}
	}
}

func TestSharpCorner(t *testing.T) {
	geom := baseGeometry()
	geom.InternalCornerRadiusMM = fp(0.1)

	res := Analyze(dfmContext(types.ProcessCNCMilling, geom))
	if findSuggestion(res, "sharp_corner") == nil {
		t.Error("expected sharp_corner under 0.2 mm")
	}
}

func TestMachiningAllowanceNeedsPurpose(t *testing.T) {
	geom := baseGeometry()
	geom.MachiningAllowanceMM = fp(1)

	ctx := dfmContext(types.ProcessCasting, geom)
	if res := Analyze(ctx); findSuggestion(res, "machining_allowance") != nil {
		t.Error("rule must not fire without a machining purpose")
	}

	ctx.Purpose = "Machining"
	res := Analyze(ctx)
	s := findSuggestion(res, "machining_allowance")
	if s == nil {
		t.Fatal("expected machining_allowance for cast blanks")
	}
	if s.Category != CategoryCost {
		t.Errorf("insufficient stock is a cost signal, got %s", s.Category)
	}
}

func TestTapDrillMismatch(t *testing.T) {
	geom := baseGeometry()
	geom.TapDrillMismatch = true

	res := Analyze(dfmContext(types.ProcessCNCMilling, geom))
	s := findSuggestion(res, "tap_drill_mismatch")
	if s == nil || s.Category != CategoryReliability {
		t.Error("expected tap_drill_mismatch reliability warning")
	}
}

func TestTightTolerance(t *testing.T) {
	ctx := dfmContext(types.ProcessCNCMilling, baseGeometry())
	ctx.ToleranceMM = fp(0.005)

	res := Analyze(ctx)
	if findSuggestion(res, "tight_tolerance") == nil {
		t.Error("tolerance finer than process capability must warn")
	}

	ctx.ToleranceMM = fp(0.01)
	if res := Analyze(ctx); len(res.Suggestions) != 0 {
		t.Error("tolerance at capability is fine")
	}
}

func TestControlledCertifications(t *testing.T) {
	ctx := dfmContext(types.ProcessCNCMilling, baseGeometry())
	ctx.Certifications = []string{"itar"}

	res := Analyze(ctx)
	s := findSuggestion(res, "controlled_certifications")
	if s == nil || s.Severity != types.SeverityInfo {
		t.Fatal("expected an info note for controlled work")
	}
	if !res.OK {
		t.Error("certifications never fail the analysis")
	}

	ctx.Certifications = []string{"ISO9001"}
	if res := Analyze(ctx); len(res.Suggestions) != 0 {
		t.Error("uncontrolled certifications are silent")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	r.Register(rule{id: "x", applies: func(*Context) bool { return false }, evaluate: func(*Context) *Suggestion { return nil }})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate rule id")
		}
	}()
	r.Register(rule{id: "x", applies: func(*Context) bool { return false }, evaluate: func(*Context) *Suggestion { return nil }})
}

func TestRegistryRejectsEmptyID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty rule id")
		}
	}()
	NewRegistry().Register(rule{id: ""})
}

func TestDefaultRegistrySize(t *testing.T) {
	if n := DefaultRegistry().Len(); n != 11 {
		t.Errorf("expected 11 production rules, got %d", n)
	}
}
