package shipping

import "math"

// volumetricDivisor converts cm³ to kg of cubic weight.
const volumetricDivisor = 6000.0

// Defaults applied when the catalog lacks physical attributes.
const (
	defaultWeightKg = 0.5
	defaultWidthCm  = 20.0
	defaultHeightCm = 10.0
	defaultDepthCm  = 20.0
)

// CubicWeightKg returns the volumetric weight of a box with the given dimensions.
func CubicWeightKg(widthCm, heightCm, depthCm float64) float64 {
	return widthCm * heightCm * depthCm / volumetricDivisor
}

// BillableWeightKg returns the greater of the actual and volumetric weight.
// No minimum is applied here; the pricing step owns the floor.
func BillableWeightKg(weightKg, widthCm, heightCm, depthCm float64) float64 {
	return math.Max(weightKg, CubicWeightKg(widthCm, heightCm, depthCm))
}

func orDefault(value *float64, fallback float64) float64 {
	if value == nil || *value <= 0 || math.IsNaN(*value) {
		return fallback
	}
	return *value
}

// UnitWeightKg is the product weight with defaults applied.
func (p ProductRecord) UnitWeightKg() float64 {
	return orDefault(p.WeightKg, defaultWeightKg)
}

// Dimensions returns width, height and depth in cm with defaults applied.
func (p ProductRecord) Dimensions() (width, height, depth float64) {
	return orDefault(p.WidthCm, defaultWidthCm),
		orDefault(p.HeightCm, defaultHeightCm),
		orDefault(p.DepthCm, defaultDepthCm)
}
