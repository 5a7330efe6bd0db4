// Package types - Mass helpers shared by pricing and feasibility
package types

// NetMassKg converts a part volume in mm3 and density in kg/m3 to mass
func NetMassKg(volumeMM3, densityKgM3 float64) float64 {
	return volumeMM3 / 1e9 * densityKgM3
}

// GrossMassKg grosses a net mass up by pour yield and scrap allowance
func GrossMassKg(netKg, yieldFraction, scrapFraction float64) float64 {
	if yieldFraction <= 0 || yieldFraction > 1 {
		yieldFraction = 1.0
	}
	if scrapFraction < 0 {
		scrapFraction = 0
	}
	return netKg / yieldFraction * (1 + scrapFraction)
}
