package calculator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

func louisvilleFacilities(t *testing.T) *models.FacilitySet {
	t.Helper()
	fs, err := models.NewFacilitySet([]models.Facility{
		{ID: "H1", Name: "Downtown Clinic", Loc: models.Coordinate{Lat: 38.2527, Lon: -85.7585}},
		{ID: "H2", Name: "East Hub", Loc: models.Coordinate{Lat: 38.2450, Lon: -85.6000}},
		{ID: "H3", Name: "West Medical", Loc: models.Coordinate{Lat: 38.2600, Lon: -85.8500}},
		{ID: "H4", Name: "South Center", Loc: models.Coordinate{Lat: 38.1800, Lon: -85.7500}},
		{ID: "H5", Name: "North Health", Loc: models.Coordinate{Lat: 38.3200, Lon: -85.7000}},
	})
	require.NoError(t, err)
	return fs
}

func randomFacilities(t *testing.T, r *rand.Rand, n int) *models.FacilitySet {
	t.Helper()
	items := make([]models.Facility, n)
	for i := range items {
		items[i] = models.Facility{Loc: randomCoordinate(r)}
	}
	fs, err := models.NewFacilitySet(items)
	require.NoError(t, err)
	return fs
}

func randomCoordinate(r *rand.Rand) models.Coordinate {
	return models.Coordinate{Lat: r.Float64()*180 - 90, Lon: r.Float64()*360 - 180}
}

func locators(fs *models.FacilitySet) map[string]Locator {
	return map[string]Locator{
		"linear":  NewLinearLocator(fs),
		"indexed": NewIndexedLocator(fs),
	}
}

func TestNearestDistance_NoGreaterThanAnyFacility(t *testing.T) {
	fs := louisvilleFacilities(t)
	r := rand.New(rand.NewSource(7))
	for name, loc := range locators(fs) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				p := models.Coordinate{Lat: 38 + r.Float64(), Lon: -86 + r.Float64()}
				nearest, err := loc.NearestDistance(p)
				require.NoError(t, err)
				for _, f := range fs.All() {
					d, err := DistanceMiles(p, f.Loc)
					require.NoError(t, err)
					assert.LessOrEqual(t, nearest, d+1e-9)
				}
			}
		})
	}
}

func TestNearestDistance_AtFacilityIsZero(t *testing.T) {
	fs := louisvilleFacilities(t)
	for name, loc := range locators(fs) {
		t.Run(name, func(t *testing.T) {
			for _, f := range fs.All() {
				d, err := loc.NearestDistance(f.Loc)
				require.NoError(t, err)
				assert.Equal(t, 0.0, d, f.ID)
			}
		})
	}
}

func TestNearestDistance_EmptyFacilitySet(t *testing.T) {
	fs, err := models.NewFacilitySet(nil)
	require.NoError(t, err)
	for name, loc := range locators(fs) {
		t.Run(name, func(t *testing.T) {
			_, err := loc.NearestDistance(downtown)
			assert.True(t, errors.Is(err, models.ErrEmptyFacilitySet))
			assert.Zero(t, loc.Len())
		})
	}
}

func TestNearestDistance_InvalidPoint(t *testing.T) {
	fs := louisvilleFacilities(t)
	for name, loc := range locators(fs) {
		t.Run(name, func(t *testing.T) {
			_, err := loc.NearestDistance(models.Coordinate{Lat: 120, Lon: 0})
			require.Error(t, err)
			assert.True(t, models.IsValidation(err))
		})
	}
}

func TestIndexedLocator_MatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, n := range []int{1, 2, 5, 40, 300} {
		fs := randomFacilities(t, r, n)
		linear := NewLinearLocator(fs)
		indexed := NewIndexedLocator(fs)
		assert.Equal(t, n, indexed.Len())

		for i := 0; i < 250; i++ {
			p := randomCoordinate(r)
			want, err := linear.NearestDistance(p)
			require.NoError(t, err)
			got, err := indexed.NearestDistance(p)
			require.NoError(t, err)
			assert.InDelta(t, want, got, 1e-6, "n=%d point=%v", n, p)
		}
	}
}

func TestIndexedLocator_AcrossAntimeridian(t *testing.T) {
	fs, err := models.NewFacilitySet([]models.Facility{
		{ID: "west", Loc: models.Coordinate{Lat: 0, Lon: 179.9}},
		{ID: "far", Loc: models.Coordinate{Lat: 0, Lon: 170}},
	})
	require.NoError(t, err)

	p := models.Coordinate{Lat: 0, Lon: -179.9}
	want, err := DistanceMiles(p, models.Coordinate{Lat: 0, Lon: 179.9})
	require.NoError(t, err)

	got, err := NewIndexedLocator(fs).NearestDistance(p)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-9)
	assert.Less(t, got, 15.0)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		radius   float64
		want     models.Status
	}{
		{"well inside", 1.2, 5, models.StatusCovered},
		{"exactly at radius", 5, 5, models.StatusCovered},
		{"just beyond radius", 5.0000001, 5, models.StatusGap},
		{"far away", 42, 5, models.StatusGap},
		// The inclusive comparison holds at radius 0; Analyze and BuildReport
		// still reject a zero radius as input (see TestAnalyze_InvalidParameters).
		{"zero distance zero radius", 0, 0, models.StatusCovered},
		{"fractional radius", 2.5, 2.5, models.StatusCovered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.distance, tt.radius))
		})
	}
}

func TestClassify_ComputedDistanceAtRadiusIsCovered(t *testing.T) {
	p := models.Coordinate{Lat: 38.30, Lon: -85.7585}
	d, err := DistanceMiles(downtown, p)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCovered, Classify(d, d))
}
