// Package pricing - Quote pricing engine.
// Selects feasible machines from the catalog, prices each candidate with
// its process cost model, keeps the cheapest, then applies the universal
// adjustment chain. Everything is deterministic given the item and the
// catalog; collaborator I/O happens before the engine is called.
package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	shoperrors "shopquote/internal/errors"
	"shopquote/internal/logging"

	"shopquote/core/catalog"
	"shopquote/core/feasibility"
	"shopquote/core/types"
)

// RateCardMachineID marks results priced via the regional fallback
const RateCardMachineID = "rate-card"

// fallbackFiveAxisFactor is the axis factor assumed for the 5-axis
// rate-card pseudo-machine, catalog machines declare their own
const fallbackFiveAxisFactor = 0.7

// Config holds engine tunables
type Config struct {
	// DefaultRegion selects the rate card when the item carries none
	DefaultRegion string

	// StandardOffsetDays and ExpediteOffsetDays anchor lead-day promises
	StandardOffsetDays int
	ExpediteOffsetDays int

	// DayMinutes converts run minutes into production days
	DayMinutes float64
}

// DefaultConfig returns engine defaults aligned with the scheduler
func DefaultConfig() Config {
	return Config{
		DefaultRegion:      "us-east",
		StandardOffsetDays: 3,
		ExpediteOffsetDays: 1,
		DayMinutes:         480,
	}
}

// Engine prices quote items against a machine catalog
type Engine struct {
	cfg Config
	log *zap.Logger
}

// New creates a pricing engine
func New(cfg Config) *Engine {
	if cfg.DayMinutes <= 0 {
		cfg.DayMinutes = 480
	}
	if cfg.StandardOffsetDays <= 0 {
		cfg.StandardOffsetDays = 3
	}
	if cfg.ExpediteOffsetDays <= 0 {
		cfg.ExpediteOffsetDays = 1
	}
	return &Engine{cfg: cfg, log: logging.With(zap.String("component", "pricing"))}
}

// candidate is one machine surviving selection, with resolved link
// multipliers
type candidate struct {
	machine      types.Machine
	materialMult float64
	finishMult   float64
	fallback     bool
}

// priced pairs a candidate with its computed result
type priced struct {
	candidate
	result     *types.PricingResult
	runMinutes float64
}

// Price computes a full pricing result for one quote item.
// Missing material or rate card aborts with a validation error; an empty
// or incompatible machine catalog falls back to rate-card pricing with a
// warning, never an error.
func (e *Engine) Price(ctx context.Context, item *types.QuoteItem, cat *catalog.Catalog) (*types.PricingResult, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	material, ok := cat.Material(item.MaterialID)
	if !ok {
		return nil, shoperrors.Validationf("material %q not in catalog", item.MaterialID)
	}

	region := item.Region
	if region == "" {
		region = e.cfg.DefaultRegion
	}
	rateCard, ok := cat.RateCard(region)
	if !ok {
		return nil, shoperrors.Validationf("no rate card for region %q", region)
	}

	var finish *types.Finish
	if item.FinishID != "" {
		if finish, ok = cat.Finish(item.FinishID); !ok {
			return nil, shoperrors.Validationf("finish %q not in catalog", item.FinishID)
		}
	}
	var tolerance *types.Tolerance
	if item.ToleranceID != "" {
		if tolerance, ok = cat.Tolerance(item.ToleranceID); !ok {
			return nil, shoperrors.Validationf("tolerance %q not in catalog", item.ToleranceID)
		}
	}

	candidates := e.selectCandidates(item, material, cat)

	var usedFallback bool
	if len(candidates) == 0 {
		candidates = e.rateCardCandidates(item, rateCard)
		usedFallback = true
		e.log.Debug("no matching machine, using rate-card fallback",
			zap.String("part", item.PartID),
			zap.String("process", item.Process.String()))
	}

	var best *priced
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := e.priceCandidate(item, candidates[i], material, finish, tolerance, rateCard)
		if err != nil {
			return nil, err
		}
		// Strict less-than keeps the earliest candidate on ties
		if best == nil || p.result.Total.LessThan(best.result.Total) {
			best = p
		}
	}

	result := best.result
	feas := feasibility.Check(item, &best.machine, material)
	result.Warnings = append(result.Warnings, feas.Warnings...)
	if usedFallback {
		result.UsedRateCard = true
		result.Warnings = append(result.Warnings, types.Warning{
			Code:     types.WarnNoMatchingMachine,
			Severity: types.SeverityWarning,
			Message:  "no compatible machine in catalog; regional rate-card pricing applied",
		})
	}
	return result, nil
}

// selectCandidates filters the catalog to machines that could actually
// run the part. Hard physical limits are pre-filters here so infeasible
// machines are never priced; softer limits surface later as warnings.
func (e *Engine) selectCandidates(item *types.QuoteItem, material *types.Material, cat *catalog.Catalog) []candidate {
	var out []candidate
	for _, m := range cat.ActiveMachines(item.Process.Family()) {
		if m.Envelope != nil && !m.Envelope.Fits(item.Geometry.BBox) {
			continue
		}
		if m.Family == types.FamilyInjection && m.Injection != nil && m.Injection.ShotCapacityCm3 > 0 {
			shotCm3 := item.Geometry.VolumeMM3 * (1 + m.Injection.RunnerFraction) / 1000
			if shotCm3 > m.Injection.ShotCapacityCm3 {
				continue
			}
		}
		if m.Family == types.FamilyCasting && m.Casting != nil && m.Casting.MaxGrossKg > 0 && material.DensityKgM3 > 0 {
			grossKg := types.GrossMassKg(
				types.NetMassKg(item.Geometry.VolumeMM3, material.DensityKgM3),
				m.Casting.YieldFraction, m.Casting.ScrapFraction)
			if grossKg > m.Casting.MaxGrossKg {
				continue
			}
		}

		materialMult, ok := cat.MaterialCompat(m.ID, item.MaterialID)
		if !ok {
			continue
		}
		finishMult := 1.0
		if item.FinishID != "" {
			if finishMult, ok = cat.FinishCompat(m.ID, item.FinishID); !ok {
				continue
			}
		}
		out = append(out, candidate{machine: m, materialMult: materialMult, finishMult: finishMult})
	}
	return out
}

// rateCardCandidates synthesizes fallback pseudo-machines so quoting
// never hard-fails on a thin catalog. CNC items also get a 5-axis
// variant when the card quotes a five-axis rate; cheapest-total
// selection then keeps whichever axis class prices lower.
func (e *Engine) rateCardCandidates(item *types.QuoteItem, rc *types.RateCard) []candidate {
	m := types.Machine{
		ID:                RateCardMachineID,
		Name:              fmt.Sprintf("%s rate card", rc.Region),
		Family:            item.Process.Family(),
		Axes:              3,
		RatePerMin:        rc.ThreeAxisRate,
		UtilizationTarget: 1.0,
		OverheadMult:      1.0,
		Active:            true,
	}
	switch m.Family {
	case types.FamilyCNC:
		m.CNC = &types.CNCParams{}
	case types.FamilyInjection:
		m.Injection = &types.InjectionParams{
			RunnerFraction: 0.25,
			CycleBaseSec:   12,
			CycleSecPerCm3: 0.5,
		}
	case types.FamilyCasting:
		m.Casting = &types.CastingParams{
			MeltRateKgPerMin: 50,
			YieldFraction:    0.95,
			ScrapFraction:    0.05,
		}
	}
	out := []candidate{{machine: m, materialMult: 1.0, finishMult: 1.0, fallback: true}}

	if m.Family == types.FamilyCNC && rc.FiveAxisRate > 0 {
		five := m
		five.Axes = 5
		five.RatePerMin = rc.FiveAxisRate
		five.CNC = &types.CNCParams{FiveAxisFactor: fallbackFiveAxisFactor}
		out = append(out, candidate{machine: five, materialMult: 1.0, finishMult: 1.0, fallback: true})
	}
	return out
}

func (e *Engine) priceCandidate(item *types.QuoteItem, c candidate, material *types.Material, finish *types.Finish, tolerance *types.Tolerance, rc *types.RateCard) (*priced, error) {
	m := c.machine

	var pc processCost
	switch m.Family {
	case types.FamilyCNC:
		pc = cncCost(cncInput{
			geom:         item.Geometry,
			quantity:     item.Quantity,
			material:     material,
			finish:       finish,
			params:       *m.CNC,
			axes:         m.Axes,
			ratePerMin:   m.RatePerMin,
			setupFee:     m.SetupFee,
			utilization:  m.UtilizationOrDefault(),
			materialMult: c.materialMult,
			finishMult:   c.finishMult,
		})
	case types.FamilyInjection:
		pc = injectionCost(injectionInput{
			geom:         item.Geometry,
			quantity:     item.Quantity,
			material:     material,
			params:       *m.Injection,
			ratePerMin:   m.RatePerMin,
			utilization:  m.UtilizationOrDefault(),
			materialMult: c.materialMult,
		})
	case types.FamilyCasting:
		pc = castingCost(castingInput{
			geom:         item.Geometry,
			quantity:     item.Quantity,
			material:     material,
			finish:       finish,
			params:       *m.Casting,
			ratePerMin:   m.RatePerMin,
			utilization:  m.UtilizationOrDefault(),
			materialMult: c.materialMult,
			finishMult:   c.finishMult,
		})
	default:
		return nil, shoperrors.NotSupported("pricing for process family " + string(m.Family))
	}

	result := e.applyAdjustments(item, &m, tolerance, rc, pc)
	result.LeadDays = e.leadDays(item.LeadTime, pc.runMinutes)

	return &priced{candidate: c, result: result, runMinutes: pc.runMinutes}, nil
}

// applyAdjustments runs the universal adjustment chain in its fixed
// order. Each step is a percentage of the running subtotal, so order
// matters; each appends a signed line item keeping the derivation
// auditable from the breakdown alone.
func (e *Engine) applyAdjustments(item *types.QuoteItem, m *types.Machine, tolerance *types.Tolerance, rc *types.RateCard, pc processCost) *types.PricingResult {
	lines := make([]types.CostLine, 0, len(pc.lines)+5)
	subtotal := decimal.Zero
	for _, l := range pc.lines {
		amt := decimal.NewFromFloat(l.amount)
		lines = append(lines, types.CostLine{Description: l.desc, Amount: amt})
		subtotal = subtotal.Add(amt)
	}

	// 1. Quantity discount
	if d := quantityDiscount(item.Quantity); d > 0 {
		delta := subtotal.Mul(decimal.NewFromFloat(d)).Neg()
		lines = append(lines, types.CostLine{Description: types.LineQuantityDiscount, Amount: delta})
		subtotal = subtotal.Add(delta)
	}

	// 2. Tolerance multiplier
	if tolerance != nil && tolerance.CostMultiplier > 0 && tolerance.CostMultiplier != 1 {
		delta := subtotal.Mul(decimal.NewFromFloat(tolerance.CostMultiplier - 1))
		lines = append(lines, types.CostLine{Description: types.LineTolerance, Amount: delta})
		subtotal = subtotal.Add(delta)
	}

	// 3. Machine overhead
	if oh := m.OverheadOrDefault(); oh != 1 {
		delta := subtotal.Mul(decimal.NewFromFloat(oh - 1))
		lines = append(lines, types.CostLine{Description: types.LineOverhead, Amount: delta})
		subtotal = subtotal.Add(delta)
	}

	// 4. Expedite premium
	if item.LeadTime == types.LeadExpedite && m.ExpediteMult > 1 {
		delta := subtotal.Mul(decimal.NewFromFloat(m.ExpediteMult - 1))
		lines = append(lines, types.CostLine{Description: types.LineExpedite, Amount: delta})
		subtotal = subtotal.Add(delta)
	}

	// 5. Margin
	if m.MarginPct > 0 {
		delta := subtotal.Mul(decimal.NewFromFloat(m.MarginPct))
		lines = append(lines, types.CostLine{Description: types.LineMargin, Amount: delta})
		subtotal = subtotal.Add(delta)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(rc.TaxRate))
	shipping := decimal.NewFromFloat(rc.ShippingFlat)
	total := subtotal.Add(tax).Add(shipping)

	return &types.PricingResult{
		Quantity:    item.Quantity,
		UnitPrice:   total.Div(decimal.NewFromInt(int64(item.Quantity))),
		Subtotal:    subtotal,
		Tax:         tax,
		Shipping:    shipping,
		Total:       total,
		MachineID:   m.ID,
		MachineName: m.Name,
		Lines:       lines,
	}
}

// leadDays promises a lead time from the scheduling offset plus the
// production days the run occupies
func (e *Engine) leadDays(lead types.LeadTimeClass, runMinutes float64) int {
	offset := e.cfg.StandardOffsetDays
	if lead == types.LeadExpedite {
		offset = e.cfg.ExpediteOffsetDays
	}
	days := int(math.Ceil(runMinutes / e.cfg.DayMinutes))
	if days < 1 {
		days = 1
	}
	return offset + days
}
