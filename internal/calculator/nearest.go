package calculator

import (
	"math"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

// Locator reduces a demand point to its distance from the nearest facility.
// Implementations are read-only after construction and safe for concurrent use.
type Locator interface {
	NearestDistance(p models.Coordinate) (float64, error)
	Len() int
}

// LinearLocator compares a point against every facility.
type LinearLocator struct {
	facilities *models.FacilitySet
}

func NewLinearLocator(fs *models.FacilitySet) *LinearLocator {
	return &LinearLocator{facilities: fs}
}

func (l *LinearLocator) Len() int {
	return l.facilities.Len()
}

// NearestDistance returns the minimum distance in miles from p to any facility.
func (l *LinearLocator) NearestDistance(p models.Coordinate) (float64, error) {
	n := l.facilities.Len()
	if n == 0 {
		return 0, models.ErrEmptyFacilitySet
	}
	if err := models.ValidateCoordinate(p); err != nil {
		return 0, err
	}

	minDist := math.Inf(1)
	for i := 0; i < n; i++ {
		f := l.facilities.At(i)
		d := haversine(p.Lat, p.Lon, f.Loc.Lat, f.Loc.Lon)
		if d < minDist {
			minDist = d
		}
	}
	return minDist, nil
}
