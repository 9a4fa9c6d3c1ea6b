package shipping

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-shipping/pkg/enums"
)

const (
	minBillableWeightKg = 0.3

	shortHaulLimitKm = 100.0
	longHaulLimitKm  = 500.0

	priceDecimals = 2
)

// priceBand is an inclusive [Min, Max] price range.
type priceBand struct {
	Min float64
	Max float64
}

// rateCard holds every heuristic constant for one service tier.
type rateCard struct {
	BasePrice  float64
	RatePerKm  float64
	RatePerKg  float64
	ShortHaul  priceBand
	MediumHaul priceBand
	LongHaul   priceBand

	BaseDays    int
	SpeedKmDay  float64
	MarginDays  int
	MinDeadline int
	MaxDeadline int
}

const (
	standardBasePrice = 12.00
	standardRatePerKm = 0.05
	standardRatePerKg = 1.50
	standardBaseDays  = 5
	standardSpeedKm   = 250.0
	standardMargin    = 2
	standardMinDays   = 5
	standardMaxDays   = 20

	expressBasePrice = 25.00
	expressRatePerKm = 0.10
	expressRatePerKg = 3.00
	expressBaseDays  = 2
	expressSpeedKm   = 500.0
	expressMargin    = 1
	expressMinDays   = 2
	expressMaxDays   = 10
)

var rateCards = map[enums.ServiceTier]rateCard{
	enums.ServiceTierStandard: {
		BasePrice:   standardBasePrice,
		RatePerKm:   standardRatePerKm,
		RatePerKg:   standardRatePerKg,
		ShortHaul:   priceBand{Min: 12, Max: 35},
		MediumHaul:  priceBand{Min: 18, Max: 50},
		LongHaul:    priceBand{Min: 30, Max: 80},
		BaseDays:    standardBaseDays,
		SpeedKmDay:  standardSpeedKm,
		MarginDays:  standardMargin,
		MinDeadline: standardMinDays,
		MaxDeadline: standardMaxDays,
	},
	enums.ServiceTierExpress: {
		BasePrice:   expressBasePrice,
		RatePerKm:   expressRatePerKm,
		RatePerKg:   expressRatePerKg,
		ShortHaul:   priceBand{Min: 25, Max: 60},
		MediumHaul:  priceBand{Min: 30, Max: 100},
		LongHaul:    priceBand{Min: 50, Max: 150},
		BaseDays:    expressBaseDays,
		SpeedKmDay:  expressSpeedKm,
		MarginDays:  expressMargin,
		MinDeadline: expressMinDays,
		MaxDeadline: expressMaxDays,
	},
}

func cardFor(tier enums.ServiceTier) rateCard {
	if card, ok := rateCards[tier]; ok {
		return card
	}
	return rateCards[enums.ServiceTierStandard]
}

// band picks the price clamp for a distance. Boundaries are fixed, so price
// is not guaranteed to be monotone across them.
func (c rateCard) band(distanceKm float64) priceBand {
	switch {
	case distanceKm < shortHaulLimitKm:
		return c.ShortHaul
	case distanceKm < longHaulLimitKm:
		return c.MediumHaul
	default:
		return c.LongHaul
	}
}

// ShippingInput describes one store group leg to be priced.
type ShippingInput struct {
	OriginZip      string
	DestinationZip string
	TotalWeightKg  float64
	WidthCm        float64
	HeightCm       float64
	DepthCm        float64
	Tier           enums.ServiceTier
}

// ShippingEstimate is the priced result of a leg.
type ShippingEstimate struct {
	DistanceKm       float64
	BillableWeightKg float64
	Price            float64
	DeadlineDays     int
}

// CalculateShipping prices a leg. Group dimensions are the per-axis maxima, so
// the volumetric weight treats the group as one bounding box.
func CalculateShipping(in ShippingInput) ShippingEstimate {
	card := cardFor(in.Tier)
	distance := EstimateDistanceKm(in.OriginZip, in.DestinationZip)

	effective := math.Max(in.TotalWeightKg, CubicWeightKg(in.WidthCm, in.HeightCm, in.DepthCm))
	finalWeight := math.Max(minBillableWeightKg, effective)

	raw := card.BasePrice + distance*card.RatePerKm + finalWeight*card.RatePerKg
	band := card.band(distance)

	return ShippingEstimate{
		DistanceKm:       distance,
		BillableWeightKg: finalWeight,
		Price:            round2(clampFloat(raw, band.Min, band.Max)),
		DeadlineDays:     card.deadline(distance),
	}
}

func (c rateCard) deadline(distanceKm float64) int {
	transport := int(math.Ceil(distanceKm / c.SpeedKmDay))
	days := c.BaseDays + transport + c.MarginDays
	if days < c.MinDeadline {
		return c.MinDeadline
	}
	if days > c.MaxDeadline {
		return c.MaxDeadline
	}
	return days
}

// round2 rounds half away from zero to two decimals.
func round2(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(priceDecimals).Float64()
	return rounded
}
