package calculator

import (
	"math"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

// EarthRadiusMiles is the mean Earth radius used for all distances.
const EarthRadiusMiles = 3958.8

// MetersPerMile converts a radius in miles to map units.
const MetersPerMile = 1609.34

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DistanceMiles returns the great-circle distance between a and b in miles.
// Both coordinates must be in range; there is no fallback distance.
func DistanceMiles(a, b models.Coordinate) (float64, error) {
	if err := models.ValidateCoordinate(a); err != nil {
		return 0, err
	}
	if err := models.ValidateCoordinate(b); err != nil {
		return 0, err
	}
	return haversine(a.Lat, a.Lon, b.Lat, b.Lon), nil
}

// haversine expects validated input.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	sPhi := math.Sin(dPhi / 2)
	sLambda := math.Sin(dLambda / 2)
	a := sPhi*sPhi + math.Cos(phi1)*math.Cos(phi2)*sLambda*sLambda

	// Rounding can leave a just outside [0, 1] for coincident or antipodal points.
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadiusMiles * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
