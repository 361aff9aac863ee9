package models

type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

type Facility struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Loc  Coordinate `json:"location"`
}

// Attribute is one passthrough column of a demand record, kept verbatim.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type DemandPoint struct {
	Loc        Coordinate  `json:"location"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

type Status string

const (
	StatusCovered Status = "Covered"
	StatusGap     Status = "Gap"
)

// Parameters are the per-request knobs of an analysis.
type Parameters struct {
	RadiusMiles float64 `json:"radius_miles"`
	HeatWeight  float64 `json:"heat_weight"`
	GapsOnly    bool    `json:"gaps_only"`
}

type ClassifiedPoint struct {
	Point    DemandPoint `json:"point"`
	Distance float64     `json:"distance_miles"`
	Status   Status      `json:"status"`
}

// Result is the output of one analysis. Points keeps input order;
// Visualization is Points filtered by GapsOnly. CoverageRatio always
// reflects the whole population.
type Result struct {
	Points        []ClassifiedPoint `json:"-"`
	Visualization []ClassifiedPoint `json:"points"`
	Covered       int               `json:"covered"`
	Total         int               `json:"total"`
	CoverageRatio float64           `json:"coverage_ratio"`
	RadiusMiles   float64           `json:"radius_miles"`
	HeatWeight    float64           `json:"heat_weight"`
}

func (r *Result) Gaps() int {
	return r.Total - r.Covered
}

// ReportRow is one line of the exported report: the source fields followed
// by the derived Distance and Status columns.
type ReportRow struct {
	Attributes []Attribute `json:"attributes"`
	Distance   float64     `json:"distance"`
	Status     Status      `json:"status"`
}
