// Package catalog - HCL catalog loader.
// Catalogs are declared in .hcl files: rate_card, material, finish,
// tolerance and machine blocks. A directory of files is merged into one
// catalog so shops can split reference data from machine definitions.
package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	shoperrors "shopquote/internal/errors"

	"shopquote/core/types"
)

// hclCatalogFile is the top-level structure of one catalog file
type hclCatalogFile struct {
	RateCards  []*hclRateCard  `hcl:"rate_card,block"`
	Materials  []*hclMaterial  `hcl:"material,block"`
	Finishes   []*hclFinish    `hcl:"finish,block"`
	Tolerances []*hclTolerance `hcl:"tolerance,block"`
	Machines   []*hclMachine   `hcl:"machine,block"`
}

type hclRateCard struct {
	Region        string  `hcl:"region,label"`
	ThreeAxisRate float64 `hcl:"three_axis_rate"`
	FiveAxisRate  float64 `hcl:"five_axis_rate,optional"`
	TaxRate       float64 `hcl:"tax_rate,optional"`
	ShippingFlat  float64 `hcl:"shipping_flat,optional"`
}

type hclMaterial struct {
	ID            string  `hcl:"id,label"`
	Name          string  `hcl:"name,optional"`
	DensityKgM3   float64 `hcl:"density_kg_m3,optional"`
	CostPerKg     float64 `hcl:"cost_per_kg"`
	Machinability float64 `hcl:"machinability,optional"`
}

type hclFinish struct {
	ID        string  `hcl:"id,label"`
	Name      string  `hcl:"name,optional"`
	CostPerM2 float64 `hcl:"cost_per_m2"`
	SetupFee  float64 `hcl:"setup_fee,optional"`
}

type hclTolerance struct {
	ID             string  `hcl:"id,label"`
	Name           string  `hcl:"name,optional"`
	ValueMM        float64 `hcl:"value_mm"`
	CostMultiplier float64 `hcl:"cost_multiplier,optional"`
}

type hclEnvelope struct {
	X float64 `hcl:"x"`
	Y float64 `hcl:"y"`
	Z float64 `hcl:"z"`
}

type hclCNC struct {
	ToolChangeMin  float64 `hcl:"tool_change_min,optional"`
	FiveAxisFactor float64 `hcl:"five_axis_factor,optional"`
}

type hclInjection struct {
	RunnerFraction  float64 `hcl:"runner_fraction,optional"`
	CycleBaseSec    float64 `hcl:"cycle_base_sec,optional"`
	CycleSecPerCm3  float64 `hcl:"cycle_sec_per_cm3,optional"`
	ToolingFixed    float64 `hcl:"tooling_fixed,optional"`
	ToolingPerCm3   float64 `hcl:"tooling_per_cm3,optional"`
	ToolLifeShots   int     `hcl:"tool_life_shots,optional"`
	ShotCapacityCm3 float64 `hcl:"shot_capacity_cm3,optional"`
	MinTonnage      float64 `hcl:"min_tonnage,optional"`
	MaxTonnage      float64 `hcl:"max_tonnage,optional"`
	ChangeoverMin   float64 `hcl:"changeover_min,optional"`
}

type hclCasting struct {
	MeltRateKgPerMin float64 `hcl:"melt_rate_kg_per_min"`
	YieldFraction    float64 `hcl:"yield_fraction,optional"`
	ScrapFraction    float64 `hcl:"scrap_fraction,optional"`
	MoldCostPerUnit  float64 `hcl:"mold_cost_per_unit,optional"`
	MoldSetupFee     float64 `hcl:"mold_setup_fee,optional"`
	MaxGrossKg       float64 `hcl:"max_gross_kg,optional"`
}

type hclLink struct {
	ID             string  `hcl:"id,label"`
	RateMultiplier float64 `hcl:"rate_multiplier,optional"`
}

type hclMachine struct {
	ID                string        `hcl:"id,label"`
	Name              string        `hcl:"name,optional"`
	Family            string        `hcl:"family"`
	Axes              int           `hcl:"axes,optional"`
	RatePerMin        float64       `hcl:"rate_per_min"`
	SetupFee          float64       `hcl:"setup_fee,optional"`
	OverheadMult      float64       `hcl:"overhead_mult,optional"`
	ExpediteMult      float64       `hcl:"expedite_mult,optional"`
	MarginPct         float64       `hcl:"margin_pct,optional"`
	UtilizationTarget float64       `hcl:"utilization_target,optional"`
	Active            *bool         `hcl:"active,optional"`
	Envelope          *hclEnvelope  `hcl:"envelope,block"`
	CNC               *hclCNC       `hcl:"cnc,block"`
	Injection         *hclInjection `hcl:"injection,block"`
	Casting           *hclCasting   `hcl:"casting,block"`
	MaterialLinks     []*hclLink    `hcl:"material_link,block"`
	FinishLinks       []*hclLink    `hcl:"finish_link,block"`
}

// evalContext exposes time unit constants so catalogs can write
// expressions like `changeover_min = 0.5 * hour`
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"minute": cty.NumberFloatVal(1),
			"hour":   cty.NumberFloatVal(60),
			"shift":  cty.NumberFloatVal(480),
		},
	}
}

// LoadDir parses every .hcl file in dir into a single validated catalog
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, shoperrors.Wrap(shoperrors.TypeConfig, "read catalog directory", err)
	}

	parser := hclparse.NewParser()
	cat := New()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".hcl") {
			continue
		}
		if err := loadFile(parser, filepath.Join(dir, entry.Name()), cat); err != nil {
			return nil, err
		}
	}

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadBytes parses one in-memory catalog document
func LoadBytes(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	cat := New()
	if err := decodeFile(parser, src, filename, cat); err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func loadFile(parser *hclparse.Parser, path string, cat *Catalog) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return shoperrors.Wrap(shoperrors.TypeConfig, "read catalog file "+path, err)
	}
	return decodeFile(parser, src, path, cat)
}

func decodeFile(parser *hclparse.Parser, src []byte, filename string, cat *Catalog) error {
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return shoperrors.Parsing("parse catalog file "+filename, diags)
	}

	var file hclCatalogFile
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &file)
	if diags.HasErrors() {
		return shoperrors.Parsing("decode catalog file "+filename, diags)
	}

	merge(cat, &file)
	return nil
}

func merge(cat *Catalog, file *hclCatalogFile) {
	for _, rc := range file.RateCards {
		cat.RateCards[rc.Region] = &types.RateCard{
			Region:        rc.Region,
			ThreeAxisRate: rc.ThreeAxisRate,
			FiveAxisRate:  rc.FiveAxisRate,
			TaxRate:       rc.TaxRate,
			ShippingFlat:  rc.ShippingFlat,
		}
	}
	for _, m := range file.Materials {
		cat.Materials[m.ID] = &types.Material{
			ID:            m.ID,
			Name:          nameOr(m.Name, m.ID),
			DensityKgM3:   m.DensityKgM3,
			CostPerKg:     m.CostPerKg,
			Machinability: m.Machinability,
		}
	}
	for _, f := range file.Finishes {
		cat.Finishes[f.ID] = &types.Finish{
			ID:        f.ID,
			Name:      nameOr(f.Name, f.ID),
			CostPerM2: f.CostPerM2,
			SetupFee:  f.SetupFee,
		}
	}
	for _, t := range file.Tolerances {
		cat.Tolerances[t.ID] = &types.Tolerance{
			ID:             t.ID,
			Name:           nameOr(t.Name, t.ID),
			ValueMM:        t.ValueMM,
			CostMultiplier: t.CostMultiplier,
		}
	}
	for _, m := range file.Machines {
		cat.Machines = append(cat.Machines, convertMachine(m))
		for _, l := range m.MaterialLinks {
			cat.MaterialLinks = append(cat.MaterialLinks, types.MachineMaterialLink{
				MachineID:      m.ID,
				MaterialID:     l.ID,
				RateMultiplier: l.RateMultiplier,
			})
		}
		for _, l := range m.FinishLinks {
			cat.FinishLinks = append(cat.FinishLinks, types.MachineFinishLink{
				MachineID:      m.ID,
				FinishID:       l.ID,
				RateMultiplier: l.RateMultiplier,
			})
		}
	}
}

func convertMachine(m *hclMachine) types.Machine {
	out := types.Machine{
		ID:                m.ID,
		Name:              nameOr(m.Name, m.ID),
		Family:            types.ProcessFamily(m.Family),
		Axes:              m.Axes,
		RatePerMin:        m.RatePerMin,
		SetupFee:          m.SetupFee,
		OverheadMult:      m.OverheadMult,
		ExpediteMult:      m.ExpediteMult,
		MarginPct:         m.MarginPct,
		UtilizationTarget: m.UtilizationTarget,
		// Machines are active unless declared otherwise
		Active: m.Active == nil || *m.Active,
	}
	if m.Envelope != nil {
		out.Envelope = &types.Envelope{X: m.Envelope.X, Y: m.Envelope.Y, Z: m.Envelope.Z}
	}
	if m.CNC != nil {
		out.CNC = &types.CNCParams{
			ToolChangeMin:  m.CNC.ToolChangeMin,
			FiveAxisFactor: m.CNC.FiveAxisFactor,
		}
	}
	if m.Injection != nil {
		out.Injection = &types.InjectionParams{
			RunnerFraction:  m.Injection.RunnerFraction,
			CycleBaseSec:    m.Injection.CycleBaseSec,
			CycleSecPerCm3:  m.Injection.CycleSecPerCm3,
			ToolingFixed:    m.Injection.ToolingFixed,
			ToolingPerCm3:   m.Injection.ToolingPerCm3,
			ToolLifeShots:   m.Injection.ToolLifeShots,
			ShotCapacityCm3: m.Injection.ShotCapacityCm3,
			MinTonnage:      m.Injection.MinTonnage,
			MaxTonnage:      m.Injection.MaxTonnage,
			ChangeoverMin:   m.Injection.ChangeoverMin,
		}
	}
	if m.Casting != nil {
		out.Casting = &types.CastingParams{
			MeltRateKgPerMin: m.Casting.MeltRateKgPerMin,
			YieldFraction:    m.Casting.YieldFraction,
			ScrapFraction:    m.Casting.ScrapFraction,
			MoldCostPerUnit:  m.Casting.MoldCostPerUnit,
			MoldSetupFee:     m.Casting.MoldSetupFee,
			MaxGrossKg:       m.Casting.MaxGrossKg,
		}
	}
	return out
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
