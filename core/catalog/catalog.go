// Package catalog holds the machine catalog and reference data consumed
// by pricing and feasibility. Lookups are explicit: the pricing core is
// handed a Catalog, it never fetches one from ambient state.
package catalog

import (
	shoperrors "shopquote/internal/errors"

	"shopquote/core/types"
)

// Catalog is the in-memory machine catalog for one pricing request
type Catalog struct {
	Machines      []types.Machine
	Materials     map[string]*types.Material
	Finishes      map[string]*types.Finish
	Tolerances    map[string]*types.Tolerance
	RateCards     map[string]*types.RateCard
	MaterialLinks []types.MachineMaterialLink
	FinishLinks   []types.MachineFinishLink
}

// New returns an empty catalog
func New() *Catalog {
	return &Catalog{
		Materials:  make(map[string]*types.Material),
		Finishes:   make(map[string]*types.Finish),
		Tolerances: make(map[string]*types.Tolerance),
		RateCards:  make(map[string]*types.RateCard),
	}
}

// Material returns a material by id
func (c *Catalog) Material(id string) (*types.Material, bool) {
	m, ok := c.Materials[id]
	return m, ok
}

// Finish returns a finish by id
func (c *Catalog) Finish(id string) (*types.Finish, bool) {
	f, ok := c.Finishes[id]
	return f, ok
}

// Tolerance returns a tolerance by id
func (c *Catalog) Tolerance(id string) (*types.Tolerance, bool) {
	t, ok := c.Tolerances[id]
	return t, ok
}

// RateCard returns the rate card for a region
func (c *Catalog) RateCard(region string) (*types.RateCard, bool) {
	r, ok := c.RateCards[region]
	return r, ok
}

// ActiveMachines returns active machines of one family, in catalog order.
// Order matters: pricing ties break toward the earlier machine.
func (c *Catalog) ActiveMachines(family types.ProcessFamily) []types.Machine {
	var out []types.Machine
	for _, m := range c.Machines {
		if m.Active && m.Family == family {
			out = append(out, m)
		}
	}
	return out
}

// MaterialCompat resolves material compatibility for a machine.
// No link rows for the machine means no restriction (multiplier 1.0).
// With link rows present, only linked materials are allowed.
func (c *Catalog) MaterialCompat(machineID, materialID string) (float64, bool) {
	restricted := false
	for _, l := range c.MaterialLinks {
		if l.MachineID != machineID {
			continue
		}
		restricted = true
		if l.MaterialID == materialID {
			if l.RateMultiplier > 0 {
				return l.RateMultiplier, true
			}
			return 1.0, true
		}
	}
	if restricted {
		return 0, false
	}
	return 1.0, true
}

// FinishCompat resolves finish compatibility for a machine, with the
// same no-rows-means-unrestricted semantics as MaterialCompat
func (c *Catalog) FinishCompat(machineID, finishID string) (float64, bool) {
	restricted := false
	for _, l := range c.FinishLinks {
		if l.MachineID != machineID {
			continue
		}
		restricted = true
		if l.FinishID == finishID {
			if l.RateMultiplier > 0 {
				return l.RateMultiplier, true
			}
			return 1.0, true
		}
	}
	if restricted {
		return 0, false
	}
	return 1.0, true
}

// Validate checks referential integrity of the loaded catalog
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Machines))
	for _, m := range c.Machines {
		if m.ID == "" {
			return shoperrors.New(shoperrors.TypeConfig, "machine with empty id")
		}
		if seen[m.ID] {
			return shoperrors.Newf(shoperrors.TypeConfig, "duplicate machine id %q", m.ID)
		}
		seen[m.ID] = true

		switch m.Family {
		case types.FamilyCNC:
			if m.CNC == nil {
				return shoperrors.Newf(shoperrors.TypeConfig, "machine %q: cnc block required for cnc family", m.ID)
			}
		case types.FamilyInjection:
			if m.Injection == nil {
				return shoperrors.Newf(shoperrors.TypeConfig, "machine %q: injection block required for injection family", m.ID)
			}
		case types.FamilyCasting:
			if m.Casting == nil {
				return shoperrors.Newf(shoperrors.TypeConfig, "machine %q: casting block required for casting family", m.ID)
			}
		default:
			return shoperrors.Newf(shoperrors.TypeConfig, "machine %q: unknown family %q", m.ID, m.Family)
		}
		if m.RatePerMin <= 0 {
			return shoperrors.Newf(shoperrors.TypeConfig, "machine %q: rate_per_min must be positive", m.ID)
		}
	}

	for _, l := range c.MaterialLinks {
		if !seen[l.MachineID] {
			return shoperrors.Newf(shoperrors.TypeConfig, "material link references unknown machine %q", l.MachineID)
		}
		if _, ok := c.Materials[l.MaterialID]; !ok {
			return shoperrors.Newf(shoperrors.TypeConfig, "material link references unknown material %q", l.MaterialID)
		}
	}
	for _, l := range c.FinishLinks {
		if !seen[l.MachineID] {
			return shoperrors.Newf(shoperrors.TypeConfig, "finish link references unknown machine %q", l.MachineID)
		}
		if _, ok := c.Finishes[l.FinishID]; !ok {
			return shoperrors.Newf(shoperrors.TypeConfig, "finish link references unknown finish %q", l.FinishID)
		}
	}
	return nil
}
