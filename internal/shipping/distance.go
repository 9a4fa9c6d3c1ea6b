package shipping

import (
	"math"
	"strconv"
)

// Postal-code distance bands. The numeric gap between two postal codes only
// loosely tracks geography, so this is a coarse approximation and not a
// geocoding computation.
const (
	minDistanceKm = 10.0
	maxDistanceKm = 3000.0

	localBandLimit    = 1000
	regionalBandLimit = 10000
	stateBandLimit    = 100000

	localBaseKm    = 10.0
	localDivisor   = 100.0
	regionalBaseKm = 20.0
	regionalDiv    = 500.0
	stateBaseKm    = 100.0
	stateDivisor   = 200.0
	nationalBaseKm = 500.0
	nationalDiv    = 500.0
)

// EstimateDistanceKm maps two validated 8-digit postal codes to an approximate
// distance in kilometers, clamped to [10, 3000]. The result only depends on
// the absolute difference of the codes, so it is symmetric.
func EstimateDistanceKm(origin, destination string) float64 {
	a, errA := strconv.ParseInt(origin, 10, 64)
	b, errB := strconv.ParseInt(destination, 10, 64)
	if errA != nil || errB != nil {
		return maxDistanceKm
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return clampFloat(distanceForDiff(diff), minDistanceKm, maxDistanceKm)
}

func distanceForDiff(diff int64) float64 {
	d := float64(diff)
	switch {
	case diff < localBandLimit:
		return localBaseKm + d/localDivisor
	case diff < regionalBandLimit:
		return regionalBaseKm + d/regionalDiv
	case diff < stateBandLimit:
		return stateBaseKm + d/stateDivisor
	default:
		return nationalBaseKm + d/nationalDiv
	}
}

func clampFloat(value, lower, upper float64) float64 {
	return math.Min(math.Max(value, lower), upper)
}
