// Package render turns an analysis result into the layers a map client draws:
// facility markers with their service circles, and demand points weighted
// for a heatmap.
package render

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/giorgikontridze/health-intel-dash/internal/calculator"
	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

const (
	ColorGap      = "#00ffff"
	ColorCovered  = "#888888"
	ColorFacility = "red"

	KindFacility = "facility"
	KindDemand   = "demand"
)

// Layers builds a FeatureCollection holding one feature per facility and one
// per point of the result's visualization subset.
func Layers(res *models.Result, facilities *models.FacilitySet) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	var extent orb.MultiPoint

	for _, f := range facilities.All() {
		pt := toPoint(f.Loc)
		feat := geojson.NewFeature(pt)
		feat.ID = f.ID
		feat.Properties["kind"] = KindFacility
		feat.Properties["name"] = f.Name
		feat.Properties["radius_meters"] = res.RadiusMiles * calculator.MetersPerMile
		feat.Properties["color"] = ColorFacility
		fc.Append(feat)
		extent = append(extent, pt)
	}

	for _, cp := range res.Visualization {
		pt := toPoint(cp.Point.Loc)
		feat := geojson.NewFeature(pt)
		feat.Properties["kind"] = KindDemand
		feat.Properties["status"] = string(cp.Status)
		feat.Properties["distance_miles"] = cp.Distance
		feat.Properties["weight"] = res.HeatWeight
		feat.Properties["color"] = StatusColor(cp.Status)
		fc.Append(feat)
		extent = append(extent, pt)
	}

	if len(extent) > 0 {
		fc.BBox = geojson.NewBBox(extent.Bound())
	}
	return fc
}

func StatusColor(s models.Status) string {
	if s == models.StatusGap {
		return ColorGap
	}
	return ColorCovered
}

// Center returns the middle of the facility extent, used to place the map.
func Center(facilities *models.FacilitySet) (models.Coordinate, bool) {
	if facilities.Len() == 0 {
		return models.Coordinate{}, false
	}
	var mp orb.MultiPoint
	for _, f := range facilities.All() {
		mp = append(mp, toPoint(f.Loc))
	}
	c := mp.Bound().Center()
	return models.Coordinate{Lat: c.Lat(), Lon: c.Lon()}, true
}

// Summary is the headline figure shown next to the map.
type Summary struct {
	CoveragePercent string  `json:"coverage_percent"`
	CoverageRatio   float64 `json:"coverage_ratio"`
	Covered         int     `json:"covered"`
	Gaps            int     `json:"gaps"`
	Total           int     `json:"total"`
	RadiusMiles     float64 `json:"radius_miles"`
}

func Summarize(res *models.Result) Summary {
	return Summary{
		CoveragePercent: fmt.Sprintf("%.1f%%", res.CoverageRatio*100),
		CoverageRatio:   res.CoverageRatio,
		Covered:         res.Covered,
		Gaps:            res.Gaps(),
		Total:           res.Total,
		RadiusMiles:     res.RadiusMiles,
	}
}

func toPoint(c models.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}
