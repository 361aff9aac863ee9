package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

var downtown = models.Coordinate{Lat: 38.2527, Lon: -85.7585}

func TestDistanceMiles_KnownDistances(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
		want float64
		tol  float64
	}{
		{"downtown to east hub", downtown, models.Coordinate{Lat: 38.2450, Lon: -85.6000}, 8.617, 0.01},
		{"downtown to north of center", downtown, models.Coordinate{Lat: 38.35, Lon: -85.75}, 6.739, 0.01},
		{"austin to dallas", models.Coordinate{Lat: 30.2672, Lon: -97.7431}, models.Coordinate{Lat: 32.7767, Lon: -96.7970}, 182.1, 0.5},
		{"new york to london", models.Coordinate{Lat: 40.7128, Lon: -74.0060}, models.Coordinate{Lat: 51.5074, Lon: -0.1278}, 3461.2, 1},
		{"antipodal on equator", models.Coordinate{Lat: 0, Lon: 0}, models.Coordinate{Lat: 0, Lon: 180}, math.Pi * EarthRadiusMiles, 1e-6},
		{"pole to pole", models.Coordinate{Lat: 90, Lon: 0}, models.Coordinate{Lat: -90, Lon: 0}, math.Pi * EarthRadiusMiles, 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DistanceMiles(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tt.tol)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestDistanceMiles_IdenticalPointsIsExactlyZero(t *testing.T) {
	coords := []models.Coordinate{
		downtown,
		{Lat: 0, Lon: 0},
		{Lat: 90, Lon: 180},
		{Lat: -90, Lon: -180},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 89.999999, Lon: -179.999999},
	}
	for _, c := range coords {
		d, err := DistanceMiles(c, c)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d, "distance(%v, %v)", c, c)
	}
}

func TestDistanceMiles_Symmetric(t *testing.T) {
	coords := []models.Coordinate{
		downtown,
		{Lat: 38.35, Lon: -85.75},
		{Lat: -45.1, Lon: 170.3},
		{Lat: 12.5, Lon: -179.9},
		{Lat: 0, Lon: 0},
		{Lat: -90, Lon: 45},
	}
	for _, a := range coords {
		for _, b := range coords {
			ab, err := DistanceMiles(a, b)
			require.NoError(t, err)
			ba, err := DistanceMiles(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "distance(%v, %v)", a, b)
		}
	}
}

func TestDistanceMiles_RejectsOutOfRange(t *testing.T) {
	bad := []models.Coordinate{
		{Lat: 90.0001, Lon: 0},
		{Lat: -91, Lon: 0},
		{Lat: 0, Lon: 180.5},
		{Lat: 0, Lon: -181},
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(1)},
	}
	for _, c := range bad {
		d, err := DistanceMiles(downtown, c)
		require.Error(t, err, "coordinate %v", c)
		assert.True(t, models.IsValidation(err))
		assert.Zero(t, d)

		_, err = DistanceMiles(c, downtown)
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
	}
}

func TestDistanceMiles_DomainEdgesAreValid(t *testing.T) {
	_, err := DistanceMiles(models.Coordinate{Lat: 90, Lon: 180}, models.Coordinate{Lat: -90, Lon: -180})
	assert.NoError(t, err)
}
