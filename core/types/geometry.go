// Package types - Geometry summary types
package types

// Point3 is a point in part coordinates (mm)
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox is the axis-aligned part extent in mm
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Geometry is the summary produced by the geometry-extraction service.
// Immutable once computed; owned by the part that requested it.
// Required fields are volume, surface area and bounding box; per-feature
// metrics are present only when the extractor could compute them.
type Geometry struct {
	// VolumeMM3 is the part volume in cubic millimeters
	VolumeMM3 float64 `json:"volume_mm3"`

	// SurfaceAreaMM2 is the total surface area in square millimeters
	SurfaceAreaMM2 float64 `json:"surface_area_mm2"`

	// BBox is the axis-aligned bounding box in millimeters
	BBox BoundingBox `json:"bbox"`

	// WallThicknessMM is the minimum wall thickness, if computed
	WallThicknessMM *float64 `json:"wall_thickness_mm,omitempty"`

	// HoleDepthToDiameterRatio is the worst-case drilled hole ratio
	HoleDepthToDiameterRatio *float64 `json:"hole_depth_to_diameter_ratio,omitempty"`

	// BendRadiusMM is the minimum bend radius for sheet parts
	BendRadiusMM *float64 `json:"bend_radius_mm,omitempty"`

	// SheetThicknessMM is the sheet stock thickness for sheet parts
	SheetThicknessMM *float64 `json:"sheet_thickness_mm,omitempty"`

	// MaxOverhangAngleDeg is the largest face-normal deviation from the
	// build axis, for additive parts
	MaxOverhangAngleDeg *float64 `json:"max_overhang_angle_deg,omitempty"`

	// OverhangFaceCentroids are centroids of faces past the overhang
	// threshold, used for marker overlays
	OverhangFaceCentroids []Point3 `json:"overhang_face_centroids,omitempty"`

	// MinFeatureSizeMM is the smallest detected feature
	MinFeatureSizeMM *float64 `json:"min_feature_size_mm,omitempty"`

	// MinBossDiameterMM is the smallest boss diameter for molded parts
	MinBossDiameterMM *float64 `json:"min_boss_diameter_mm,omitempty"`

	// DraftAngleDeg is the minimum draft angle for cast/molded parts
	DraftAngleDeg *float64 `json:"draft_angle_deg,omitempty"`

	// InternalCornerRadiusMM is the minimum internal corner radius
	InternalCornerRadiusMM *float64 `json:"internal_corner_radius_mm,omitempty"`

	// MachiningAllowanceMM is the stock left for post-machining
	MachiningAllowanceMM *float64 `json:"machining_allowance_mm,omitempty"`

	// TapDrillMismatch flags a tap whose pilot hole diameter is off-spec
	TapDrillMismatch bool `json:"tap_drill_mismatch,omitempty"`
}

// ProjectedAreaCM2 returns the XY projected area in square centimeters,
// used for clamp tonnage estimation
func (g *Geometry) ProjectedAreaCM2() float64 {
	return g.BBox.X * g.BBox.Y / 100.0
}

// Valid reports whether the required summary fields are usable
func (g *Geometry) Valid() bool {
	return g != nil && g.VolumeMM3 > 0 && g.SurfaceAreaMM2 > 0 &&
		g.BBox.X > 0 && g.BBox.Y > 0 && g.BBox.Z > 0
}
