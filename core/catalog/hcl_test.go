// Package catalog - HCL loader tests
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shoperrors "shopquote/internal/errors"

	"shopquote/core/types"
)

const sampleCatalog = `
rate_card "us-east" {
  three_axis_rate = 1.5
  five_axis_rate  = 2.5
  tax_rate        = 0.08
  shipping_flat   = 12
}

material "al-6061" {
  name          = "Aluminum 6061-T6"
  density_kg_m3 = 2700
  cost_per_kg   = 4.5
  machinability = 1.0
}

finish "anodize-clear" {
  cost_per_m2 = 80
  setup_fee   = 40
}

tolerance "precision" {
  value_mm        = 0.01
  cost_multiplier = 1.35
}

machine "vf2" {
  name         = "Haas VF-2"
  family       = "cnc"
  axes         = 3
  rate_per_min = 1.2
  setup_fee    = 75

  envelope {
    x = 762
    y = 406
    z = 508
  }

  cnc {
    tool_change_min = 15 * minute
  }

  material_link "al-6061" {
    rate_multiplier = 1.1
  }

  finish_link "anodize-clear" {}
}

machine "press-250t" {
  family       = "injection"
  rate_per_min = 0.9
  active       = false

  injection {
    min_tonnage    = 50
    max_tonnage    = 250
    changeover_min = 0.5 * hour
  }
}
`

func TestLoadBytesFullCatalog(t *testing.T) {
	cat, err := LoadBytes([]byte(sampleCatalog), "shop.hcl")
	require.NoError(t, err)

	rc, ok := cat.RateCard("us-east")
	require.True(t, ok)
	assert.Equal(t, 1.5, rc.ThreeAxisRate)
	assert.Equal(t, 0.08, rc.TaxRate)
	assert.Equal(t, 12.0, rc.ShippingFlat)

	mat, ok := cat.Material("al-6061")
	require.True(t, ok)
	assert.Equal(t, "Aluminum 6061-T6", mat.Name)
	assert.Equal(t, 2700.0, mat.DensityKgM3)

	fin, ok := cat.Finish("anodize-clear")
	require.True(t, ok)
	assert.Equal(t, "anodize-clear", fin.Name, "name defaults to the block label")

	tol, ok := cat.Tolerance("precision")
	require.True(t, ok)
	assert.Equal(t, 1.35, tol.CostMultiplier)

	require.Len(t, cat.Machines, 2)
	vf2 := cat.Machines[0]
	assert.Equal(t, "Haas VF-2", vf2.Name)
	assert.Equal(t, types.FamilyCNC, vf2.Family)
	assert.True(t, vf2.Active, "machines default to active")
	require.NotNil(t, vf2.Envelope)
	assert.Equal(t, 762.0, vf2.Envelope.X)
	require.NotNil(t, vf2.CNC)
	assert.Equal(t, 15.0, vf2.CNC.ToolChangeMin, "minute is the base unit")

	press := cat.Machines[1]
	assert.False(t, press.Active, "explicit active = false must stick")
	require.NotNil(t, press.Injection)
	assert.Equal(t, 30.0, press.Injection.ChangeoverMin, "hour expands to 60 minutes")
}

func TestLinkCompatibilitySemantics(t *testing.T) {
	cat, err := LoadBytes([]byte(sampleCatalog), "shop.hcl")
	require.NoError(t, err)

	// vf2 declares links, so it is restricted to them.
	mult, ok := cat.MaterialCompat("vf2", "al-6061")
	assert.True(t, ok)
	assert.Equal(t, 1.1, mult)

	_, ok = cat.MaterialCompat("vf2", "steel-4140")
	assert.False(t, ok, "linked machine must reject unlisted materials")

	// A link without a multiplier defaults to 1.0.
	mult, ok = cat.FinishCompat("vf2", "anodize-clear")
	assert.True(t, ok)
	assert.Equal(t, 1.0, mult)

	// press-250t declares no links at all, so nothing is restricted.
	mult, ok = cat.MaterialCompat("press-250t", "anything")
	assert.True(t, ok)
	assert.Equal(t, 1.0, mult)
}

func TestLoadDirMergesFiles(t *testing.T) {
	dir := t.TempDir()
	reference := `
rate_card "us-east" {
  three_axis_rate = 1.5
}

material "al-6061" {
  cost_per_kg = 4.5
}
`
	machines := `
machine "vf2" {
  family       = "cnc"
  rate_per_min = 1.2
  cnc {}
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reference.hcl"), []byte(reference), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "machines.hcl"), []byte(machines), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	cat, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, cat.Machines, 1)
	_, ok := cat.Material("al-6061")
	assert.True(t, ok)
	_, ok = cat.RateCard("us-east")
	assert.True(t, ok)
}

func TestLoadBytesParseError(t *testing.T) {
	_, err := LoadBytes([]byte(`machine "x" {`), "broken.hcl")
	require.Error(t, err)
	assert.True(t, shoperrors.IsType(err, shoperrors.TypeParsing))
}

func TestValidateRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unknown family", `
machine "x" {
  family       = "waterjet"
  rate_per_min = 1
}`},
		{"duplicate machine id", `
machine "x" {
  family       = "cnc"
  rate_per_min = 1
  cnc {}
}
machine "x" {
  family       = "cnc"
  rate_per_min = 1
  cnc {}
}`},
		{"missing family params", `
machine "x" {
  family       = "cnc"
  rate_per_min = 1
}`},
		{"non-positive rate", `
machine "x" {
  family       = "cnc"
  rate_per_min = 0
  cnc {}
}`},
		{"link to unknown material", `
machine "x" {
  family       = "cnc"
  rate_per_min = 1
  cnc {}
  material_link "nope" {}
}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tc.src), tc.name+".hcl")
			require.Error(t, err)
			assert.True(t, shoperrors.IsType(err, shoperrors.TypeConfig), "got %v", err)
		})
	}
}
