package calculator

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

const (
	pointTolerance = 1e-9
	// candidates checked with haversine after the tree lookup
	nearestCandidates = 3
)

// IndexedLocator answers nearest-facility queries from an R-tree.
//
// Facilities are stored as points on the unit sphere. Chord length between
// two such points grows monotonically with great-circle distance, so the
// Euclidean nearest neighbour in 3-D is also the geodesic nearest facility.
// The final distance is still computed with haversine.
type IndexedLocator struct {
	tree *rtreego.Rtree
	n    int
}

type indexedFacility struct {
	loc   models.Coordinate
	point rtreego.Point
}

func (f *indexedFacility) Bounds() rtreego.Rect {
	return f.point.ToRect(pointTolerance)
}

func NewIndexedLocator(fs *models.FacilitySet) *IndexedLocator {
	n := fs.Len()
	objs := make([]rtreego.Spatial, 0, n)
	for i := 0; i < n; i++ {
		f := fs.At(i)
		objs = append(objs, &indexedFacility{loc: f.Loc, point: unitVector(f.Loc)})
	}
	return &IndexedLocator{
		tree: rtreego.NewTree(3, 2, 8, objs...),
		n:    n,
	}
}

func (l *IndexedLocator) Len() int {
	return l.n
}

func (l *IndexedLocator) NearestDistance(p models.Coordinate) (float64, error) {
	if l.n == 0 {
		return 0, models.ErrEmptyFacilitySet
	}
	if err := models.ValidateCoordinate(p); err != nil {
		return 0, err
	}

	k := nearestCandidates
	if k > l.n {
		k = l.n
	}

	minDist := math.Inf(1)
	for _, s := range l.tree.NearestNeighbors(k, unitVector(p)) {
		f, ok := s.(*indexedFacility)
		if !ok {
			continue
		}
		d := haversine(p.Lat, p.Lon, f.loc.Lat, f.loc.Lon)
		if d < minDist {
			minDist = d
		}
	}
	return minDist, nil
}

func unitVector(c models.Coordinate) rtreego.Point {
	phi := toRadians(c.Lat)
	lambda := toRadians(c.Lon)
	return rtreego.Point{
		math.Cos(phi) * math.Cos(lambda),
		math.Cos(phi) * math.Sin(lambda),
		math.Sin(phi),
	}
}
