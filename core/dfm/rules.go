// Package dfm - The production rule set with its fixed thresholds.
package dfm

import (
	"fmt"
	"strings"

	"shopquote/core/types"
)

// rule implements Rule as a predicate/evaluator closure pair
type rule struct {
	id       string
	applies  func(*Context) bool
	evaluate func(*Context) *Suggestion
}

func (r rule) ID() string                        { return r.id }
func (r rule) Applies(ctx *Context) bool         { return r.applies(ctx) }
func (r rule) Evaluate(ctx *Context) *Suggestion { return r.evaluate(ctx) }

// Wall thickness limits in mm
const (
	thinWallCNCMin       = 0.8
	thinWallPowderBedMin = 1.2
)

// Other rule thresholds
const (
	holeDepthRatioMax       = 6.0
	bossDiameterMin         = 1.0
	overhangAngleMaxDeg     = 45.0
	draftAngleMinDeg        = 1.0
	cornerRadiusMinMM       = 0.2
	machiningAllowanceMinMM = 2.0
)

// toleranceCapability is the nominal tolerance each process holds, in mm
var toleranceCapability = map[types.ProcessKind]float64{
	types.ProcessCNCMilling:       0.01,
	types.ProcessCNCTurning:       0.01,
	types.ProcessInjectionMolding: 0.05,
	types.ProcessCasting:          0.5,
	types.ProcessDieCasting:       0.5,
	types.ProcessSLS:              0.1,
	types.ProcessSLA:              0.05,
	types.ProcessFDM:              0.2,
	types.ProcessSheetMetal:       0.1,
}

func buildDefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(rule{
		id: "thin_wall",
		applies: func(ctx *Context) bool {
			return (ctx.Process.IsCNC() || ctx.Process == types.ProcessSLS) &&
				ctx.Geometry.WallThicknessMM != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			limit := thinWallCNCMin
			if ctx.Process == types.ProcessSLS {
				limit = thinWallPowderBedMin
			}
			t := *ctx.Geometry.WallThicknessMM
			if t >= limit {
				return nil
			}
			return &Suggestion{
				ID:          "thin_wall",
				Message:     fmt.Sprintf("minimum wall thickness %.2f mm is below the %.1f mm process limit", t, limit),
				Severity:    types.SeverityError,
				Category:    CategoryManufacturability,
				Metric:      &t,
				MetricLabel: "wall_thickness_mm",
				Overlay: &Overlay{
					Kind:      OverlayHeatMap,
					Field:     "wall_thickness",
					Threshold: limit,
				},
			}
		},
	})

	r.Register(rule{
		id: "deep_hole",
		applies: func(ctx *Context) bool {
			return ctx.Process.IsCNC() && ctx.Geometry.HoleDepthToDiameterRatio != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			ratio := *ctx.Geometry.HoleDepthToDiameterRatio
			if ratio <= holeDepthRatioMax {
				return nil
			}
			return &Suggestion{
				ID:          "deep_hole",
				Message:     fmt.Sprintf("hole depth-to-diameter ratio %.1f exceeds %.0f:1; consider a larger diameter or gun drilling", ratio, holeDepthRatioMax),
				Severity:    types.SeverityWarning,
				Category:    CategoryManufacturability,
				Metric:      &ratio,
				MetricLabel: "depth_to_diameter",
			}
		},
	})

	r.Register(rule{
		id: "small_boss",
		applies: func(ctx *Context) bool {
			return ctx.Process == types.ProcessInjectionMolding && ctx.Geometry.MinBossDiameterMM != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			d := *ctx.Geometry.MinBossDiameterMM
			if d >= bossDiameterMin {
				return nil
			}
			return &Suggestion{
				ID:          "small_boss",
				Message:     fmt.Sprintf("boss diameter %.2f mm is below the %.1f mm moldable minimum", d, bossDiameterMin),
				Severity:    types.SeverityError,
				Category:    CategoryFeasibility,
				Metric:      &d,
				MetricLabel: "boss_diameter_mm",
			}
		},
	})

	r.Register(rule{
		id: "overhang",
		applies: func(ctx *Context) bool {
			return ctx.Process.IsAdditive() && ctx.Geometry.MaxOverhangAngleDeg != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			angle := *ctx.Geometry.MaxOverhangAngleDeg
			if angle <= overhangAngleMaxDeg {
				return nil
			}
			s := &Suggestion{
				ID:          "overhang",
				Message:     fmt.Sprintf("faces deviate %.0f deg from the build axis; supports will be required past %.0f deg", angle, overhangAngleMaxDeg),
				Severity:    types.SeverityWarning,
				Category:    CategoryManufacturability,
				Metric:      &angle,
				MetricLabel: "overhang_angle_deg",
			}
			if len(ctx.Geometry.OverhangFaceCentroids) > 0 {
				s.Overlay = &Overlay{
					Kind:   OverlayMarkers,
					Points: ctx.Geometry.OverhangFaceCentroids,
				}
			}
			return s
		},
	})

	r.Register(rule{
		id: "tight_bend",
		applies: func(ctx *Context) bool {
			return ctx.Process == types.ProcessSheetMetal &&
				ctx.Geometry.BendRadiusMM != nil && ctx.Geometry.SheetThicknessMM != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			radius := *ctx.Geometry.BendRadiusMM
			thickness := *ctx.Geometry.SheetThicknessMM
			if radius >= thickness {
				return nil
			}
			return &Suggestion{
				ID:          "tight_bend",
				Message:     fmt.Sprintf("bend radius %.2f mm is below the material thickness %.2f mm; cracking is likely", radius, thickness),
				Severity:    types.SeverityWarning,
				Category:    CategoryManufacturability,
				Metric:      &radius,
				MetricLabel: "bend_radius_mm",
			}
		},
	})

	r.Register(rule{
		id: "low_draft",
		applies: func(ctx *Context) bool {
			return ctx.Process.IsCastingFamily() && ctx.Geometry.DraftAngleDeg != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			draft := *ctx.Geometry.DraftAngleDeg
			if draft >= draftAngleMinDeg {
				return nil
			}
			return &Suggestion{
				ID:          "low_draft",
				Message:     fmt.Sprintf("draft angle %.2f deg is below the %.0f deg minimum for pattern withdrawal", draft, draftAngleMinDeg),
				Severity:    types.SeverityError,
				Category:    CategoryManufacturability,
				Metric:      &draft,
				MetricLabel: "draft_angle_deg",
			}
		},
	})

	r.Register(rule{
		id: "sharp_corner",
		applies: func(ctx *Context) bool {
			return ctx.Process.IsCNC() && ctx.Geometry.InternalCornerRadiusMM != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			radius := *ctx.Geometry.InternalCornerRadiusMM
			if radius >= cornerRadiusMinMM {
				return nil
			}
			return &Suggestion{
				ID:          "sharp_corner",
				Message:     fmt.Sprintf("internal corner radius %.2f mm is below the %.1f mm tool minimum; sharp corners need EDM", radius, cornerRadiusMinMM),
				Severity:    types.SeverityWarning,
				Category:    CategoryManufacturability,
				Metric:      &radius,
				MetricLabel: "corner_radius_mm",
			}
		},
	})

	r.Register(rule{
		id: "machining_allowance",
		applies: func(ctx *Context) bool {
			return ctx.Process.IsCastingFamily() &&
				strings.EqualFold(ctx.Purpose, "machining") &&
				ctx.Geometry.MachiningAllowanceMM != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			allowance := *ctx.Geometry.MachiningAllowanceMM
			if allowance >= machiningAllowanceMinMM {
				return nil
			}
			return &Suggestion{
				ID:          "machining_allowance",
				Message:     fmt.Sprintf("machining allowance %.1f mm is below the %.0f mm recommended stock for post-machining", allowance, machiningAllowanceMinMM),
				Severity:    types.SeverityWarning,
				Category:    CategoryCost,
				Metric:      &allowance,
				MetricLabel: "allowance_mm",
			}
		},
	})

	r.Register(rule{
		id: "tap_drill_mismatch",
		applies: func(ctx *Context) bool {
			return ctx.Process.IsCNC()
		},
		evaluate: func(ctx *Context) *Suggestion {
			if !ctx.Geometry.TapDrillMismatch {
				return nil
			}
			return &Suggestion{
				ID:       "tap_drill_mismatch",
				Message:  "tapped hole pilot diameter does not match the tap spec; thread engagement may be off",
				Severity: types.SeverityWarning,
				Category: CategoryReliability,
			}
		},
	})

	r.Register(rule{
		id: "tight_tolerance",
		applies: func(ctx *Context) bool {
			_, known := toleranceCapability[ctx.Process]
			return known && ctx.ToleranceMM != nil
		},
		evaluate: func(ctx *Context) *Suggestion {
			capability := toleranceCapability[ctx.Process]
			requested := *ctx.ToleranceMM
			if requested >= capability {
				return nil
			}
			return &Suggestion{
				ID:          "tight_tolerance",
				Message:     fmt.Sprintf("requested tolerance %.3f mm is finer than the %.3f mm nominal process capability; expect added inspection cost", requested, capability),
				Severity:    types.SeverityWarning,
				Category:    CategoryCost,
				Metric:      &requested,
				MetricLabel: "tolerance_mm",
			}
		},
	})

	r.Register(rule{
		id: "controlled_certifications",
		applies: func(ctx *Context) bool {
			return len(ctx.Certifications) > 0
		},
		evaluate: func(ctx *Context) *Suggestion {
			for _, c := range ctx.Certifications {
				u := strings.ToUpper(c)
				if u == "AS9100" || u == "ITAR" {
					return &Suggestion{
						ID:       "controlled_certifications",
						Message:  fmt.Sprintf("%s work requires extended process controls and traceability; expect added cost and lead time", u),
						Severity: types.SeverityInfo,
						Category: CategoryReliability,
					}
				}
			}
			return nil
		},
	})

	return r
}
