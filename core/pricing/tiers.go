// Package pricing - Quantity tier pricing with monotonicity smoothing.
package pricing

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	shoperrors "shopquote/internal/errors"

	"shopquote/core/catalog"
	"shopquote/core/types"
)

// tierFloor bounds how far a tier's unit price may drop below the
// previous tier's: never under 80%
var tierFloor = decimal.NewFromFloat(0.8)

// PriceTiers prices an ascending list of quantities independently, then
// enforces unit-price monotonicity across tiers: unit price never rises
// with quantity and never falls below 80% of the previous tier. Clamped
// tiers get a tier_adjustment line recording the correction.
func (e *Engine) PriceTiers(ctx context.Context, item *types.QuoteItem, cat *catalog.Catalog, quantities []int) (map[int]*types.PricingResult, error) {
	if len(quantities) == 0 {
		return nil, shoperrors.Validation("at least one tier quantity is required")
	}
	qs := append([]int(nil), quantities...)
	sort.Ints(qs)
	if qs[0] < 1 {
		return nil, shoperrors.Validationf("tier quantity must be >= 1, got %d", qs[0])
	}

	// Tiers are independent computations; price them concurrently.
	results := make([]*types.PricingResult, len(qs))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range qs {
		tierItem := *item
		tierItem.Quantity = q
		g.Go(func() error {
			r, err := e.Price(gctx, &tierItem, cat)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	smoothTiers(results)

	out := make(map[int]*types.PricingResult, len(results))
	for _, r := range results {
		out[r.Quantity] = r
	}
	return out, nil
}

// smoothTiers walks tiers in ascending quantity order and clamps each
// unit price into [0.8 x prev, prev]. Comparisons use the previous
// tier's clamped value so corrections do not cascade.
func smoothTiers(results []*types.PricingResult) {
	for i := 1; i < len(results); i++ {
		prev := results[i-1].UnitPrice
		cur := results[i]

		ceiling := prev
		floor := prev.Mul(tierFloor)

		var clamped decimal.Decimal
		switch {
		case cur.UnitPrice.GreaterThan(ceiling):
			clamped = ceiling
		case cur.UnitPrice.LessThan(floor):
			clamped = floor
		default:
			continue
		}

		qty := decimal.NewFromInt(int64(cur.Quantity))
		newTotal := clamped.Mul(qty)
		delta := newTotal.Sub(cur.Total)

		cur.UnitPrice = clamped
		cur.Total = newTotal
		// Tax and shipping stay; the subtotal absorbs the correction so
		// subtotal + tax + shipping still equals total exactly.
		cur.Subtotal = newTotal.Sub(cur.Tax).Sub(cur.Shipping)
		cur.Lines = append(cur.Lines, types.CostLine{
			Description: types.LineTierAdjustment,
			Amount:      delta,
		})
	}
}
