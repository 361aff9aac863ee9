package calculator

import (
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

// Analyzer runs coverage analyses and report builds against one Locator.
// It holds no per-call state; one Analyzer may serve concurrent callers.
type Analyzer struct {
	locator Locator
	workers int
	log     *zap.Logger
}

type Option func(*Analyzer)

// WithWorkers splits the per-point work into n contiguous chunks.
// Values below 2 keep the computation on the calling goroutine.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n < 1 {
			n = 1
		}
		a.workers = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

func NewAnalyzer(locator Locator, opts ...Option) *Analyzer {
	a := &Analyzer{
		locator: locator,
		workers: 1,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies every demand point and aggregates the coverage ratio.
// The ratio always covers the full set; GapsOnly only narrows Visualization.
// On any error no result is returned.
func (a *Analyzer) Analyze(points []models.DemandPoint, params models.Parameters) (*models.Result, error) {
	if err := validateRadius(params.RadiusMiles); err != nil {
		return nil, err
	}
	if err := validateHeatWeight(params.HeatWeight); err != nil {
		return nil, err
	}

	classified, err := a.classifyAll(points, params.RadiusMiles)
	if err != nil {
		return nil, err
	}

	res := &models.Result{
		Points:      classified,
		Total:       len(classified),
		RadiusMiles: params.RadiusMiles,
		HeatWeight:  params.HeatWeight,
	}
	for _, cp := range classified {
		if cp.Status == models.StatusCovered {
			res.Covered++
		}
	}
	res.CoverageRatio = float64(res.Covered) / float64(res.Total)

	if params.GapsOnly {
		res.Visualization = make([]models.ClassifiedPoint, 0, res.Gaps())
		for _, cp := range classified {
			if cp.Status == models.StatusGap {
				res.Visualization = append(res.Visualization, cp)
			}
		}
	} else {
		res.Visualization = classified
	}

	a.log.Debug("coverage analysis completed",
		zap.Int("points", res.Total),
		zap.Int("covered", res.Covered),
		zap.Float64("radius_miles", params.RadiusMiles),
		zap.Bool("gaps_only", params.GapsOnly),
		zap.Float64("coverage_ratio", res.CoverageRatio),
	)
	return res, nil
}

// BuildReport returns one row per demand point, in input order, with the
// source attributes plus Distance and Status for the given radius.
// Distances are recomputed on every call.
func (a *Analyzer) BuildReport(points []models.DemandPoint, radius float64) ([]models.ReportRow, error) {
	if err := validateRadius(radius); err != nil {
		return nil, err
	}

	classified, err := a.classifyAll(points, radius)
	if err != nil {
		return nil, err
	}

	rows := make([]models.ReportRow, len(classified))
	for i, cp := range classified {
		attrs := make([]models.Attribute, len(cp.Point.Attributes))
		copy(attrs, cp.Point.Attributes)
		rows[i] = models.ReportRow{
			Attributes: attrs,
			Distance:   cp.Distance,
			Status:     cp.Status,
		}
	}

	a.log.Debug("coverage report built",
		zap.Int("rows", len(rows)),
		zap.Float64("radius_miles", radius),
	)
	return rows, nil
}

func (a *Analyzer) classifyAll(points []models.DemandPoint, radius float64) ([]models.ClassifiedPoint, error) {
	if a.locator.Len() == 0 {
		return nil, models.ErrEmptyFacilitySet
	}
	total := len(points)
	if total == 0 {
		return nil, models.ErrEmptyDemandSet
	}

	results := make([]models.ClassifiedPoint, total)

	workers := a.workers
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		if err := a.classifyRange(points, results, 0, total, radius); err != nil {
			return nil, err
		}
		return results, nil
	}

	chunkSize := (total + workers - 1) / workers
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if start >= total {
			break
		}
		if end > total {
			end = total
		}
		s, e := start, end
		g.Go(func() error {
			return a.classifyRange(points, results, s, e, radius)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// classifyRange fills results[s:e]; each worker owns a disjoint range.
func (a *Analyzer) classifyRange(points []models.DemandPoint, results []models.ClassifiedPoint, s, e int, radius float64) error {
	for idx := s; idx < e; idx++ {
		p := points[idx]
		d, err := a.locator.NearestDistance(p.Loc)
		if err != nil {
			return &PointError{Index: idx, Err: err}
		}
		results[idx] = models.ClassifiedPoint{
			Point:    p,
			Distance: d,
			Status:   Classify(d, radius),
		}
	}
	return nil
}

// Analyze runs a single analysis against facilities with a linear scan.
func Analyze(points []models.DemandPoint, facilities *models.FacilitySet, params models.Parameters) (*models.Result, error) {
	return NewAnalyzer(NewLinearLocator(facilities)).Analyze(points, params)
}

// BuildReport builds report rows against facilities with a linear scan.
func BuildReport(points []models.DemandPoint, facilities *models.FacilitySet, radius float64) ([]models.ReportRow, error) {
	return NewAnalyzer(NewLinearLocator(facilities)).BuildReport(points, radius)
}

func validateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return &models.ValidationError{Field: "radius_miles", Value: radius, Reason: "must be a positive finite number"}
	}
	return nil
}

func validateHeatWeight(w float64) error {
	if math.IsNaN(w) || w <= 0 || w > 1 {
		return &models.ValidationError{Field: "heat_weight", Value: w, Reason: "must be within (0, 1]"}
	}
	return nil
}
