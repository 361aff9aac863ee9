package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/giorgikontridze/health-intel-dash/internal/calculator"
	"github.com/giorgikontridze/health-intel-dash/internal/excel"
	"github.com/giorgikontridze/health-intel-dash/internal/models"
	"github.com/giorgikontridze/health-intel-dash/internal/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DemandSource yields the demand points of one request. It is called on every
// request; nothing is cached between calls.
type DemandSource interface {
	Load(ctx context.Context) ([]models.DemandPoint, error)
}

// Defaults fill in parameters a request leaves out.
type Defaults struct {
	RadiusMiles    float64
	HeatWeight     float64
	ReportFilename string
	ReportSheet    string
}

type Handler struct {
	analyzer   *calculator.Analyzer
	facilities *models.FacilitySet
	source     DemandSource
	defaults   Defaults
	log        *zap.Logger
}

func NewHandler(
	analyzer *calculator.Analyzer,
	facilities *models.FacilitySet,
	source DemandSource,
	defaults Defaults,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		analyzer:   analyzer,
		facilities: facilities,
		source:     source,
		defaults:   defaults,
		log:        log,
	}
}

// AnalyzeRequest carries demand points inline instead of reading the source.
type AnalyzeRequest struct {
	RadiusMiles *float64       `json:"radius_miles"`
	HeatWeight  *float64       `json:"heat_weight"`
	GapsOnly    bool           `json:"gaps_only"`
	Points      []PointRequest `json:"points"`
}

// PointRequest is one inline demand point. Coordinates are pointers so a
// missing or null value is rejected instead of decoding as 0.
type PointRequest struct {
	Location   *LocationRequest   `json:"location"`
	Attributes []models.Attribute `json:"attributes,omitempty"`
}

type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (p PointRequest) demandPoint(i int) (models.DemandPoint, error) {
	field := fmt.Sprintf("points[%d].location", i)
	if p.Location == nil {
		return models.DemandPoint{}, &models.ValidationError{Field: field, Value: nil, Reason: "is required"}
	}
	if p.Location.Latitude == nil {
		return models.DemandPoint{}, &models.ValidationError{Field: field + ".latitude", Value: nil, Reason: "is required"}
	}
	if p.Location.Longitude == nil {
		return models.DemandPoint{}, &models.ValidationError{Field: field + ".longitude", Value: nil, Reason: "is required"}
	}
	return models.DemandPoint{
		Loc:        models.Coordinate{Lat: *p.Location.Latitude, Lon: *p.Location.Longitude},
		Attributes: p.Attributes,
	}, nil
}

type AnalysisResponse struct {
	Summary    render.Summary           `json:"summary"`
	HeatWeight float64                  `json:"heat_weight"`
	GapsOnly   bool                     `json:"gaps_only"`
	Points     []models.ClassifiedPoint `json:"points"`
}

// Health
// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "facilities": h.facilities.Len()})
}

// Facilities lists the fixed facility set.
// GET /api/v1/facilities
func (h *Handler) Facilities(c *gin.Context) {
	resp := gin.H{"facilities": h.facilities.All()}
	if center, ok := render.Center(h.facilities); ok {
		resp["center"] = center
	}
	c.JSON(http.StatusOK, resp)
}

// Analysis runs an analysis over the configured demand source.
// GET /api/v1/analysis?radius=&heat=&gaps_only=
func (h *Handler) Analysis(c *gin.Context) {
	params, err := h.queryParams(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.analyzeSource(c, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newAnalysisResponse(res, params))
}

// AnalyzePoints runs an analysis over points in the request body.
// POST /api/v1/analysis
func (h *Handler) AnalyzePoints(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request", Details: err.Error()})
		return
	}

	params := models.Parameters{
		RadiusMiles: h.defaults.RadiusMiles,
		HeatWeight:  h.defaults.HeatWeight,
		GapsOnly:    req.GapsOnly,
	}
	if req.RadiusMiles != nil {
		params.RadiusMiles = *req.RadiusMiles
	}
	if req.HeatWeight != nil {
		params.HeatWeight = *req.HeatWeight
	}

	points := make([]models.DemandPoint, len(req.Points))
	for i, p := range req.Points {
		dp, err := p.demandPoint(i)
		if err != nil {
			h.fail(c, err)
			return
		}
		points[i] = dp
	}

	res, err := h.analyzer.Analyze(points, params)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newAnalysisResponse(res, params))
}

// Map returns the GeoJSON layers for the renderer.
// GET /api/v1/map?radius=&heat=&gaps_only=
func (h *Handler) Map(c *gin.Context) {
	params, err := h.queryParams(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.analyzeSource(c, params)
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := render.Layers(res, h.facilities).MarshalJSON()
	if err != nil {
		h.fail(c, eris.Wrap(err, "api: encode layers"))
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// Report exports the annotated demand table as a workbook. Distances are
// recomputed for the requested radius.
// GET /api/v1/report?radius=
func (h *Handler) Report(c *gin.Context) {
	radius, err := floatQuery(c, "radius", h.defaults.RadiusMiles)
	if err != nil {
		h.fail(c, err)
		return
	}

	points, err := h.source.Load(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := h.analyzer.BuildReport(points, radius)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, rows, h.defaults.ReportSheet); err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info("report exported",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Int("rows", len(rows)),
		zap.Float64("radius_miles", radius),
	)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.defaults.ReportFilename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) analyzeSource(c *gin.Context, params models.Parameters) (*models.Result, error) {
	points, err := h.source.Load(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return h.analyzer.Analyze(points, params)
}

func (h *Handler) queryParams(c *gin.Context) (models.Parameters, error) {
	radius, err := floatQuery(c, "radius", h.defaults.RadiusMiles)
	if err != nil {
		return models.Parameters{}, err
	}
	heat, err := floatQuery(c, "heat", h.defaults.HeatWeight)
	if err != nil {
		return models.Parameters{}, err
	}
	gapsOnly := false
	if raw := c.Query("gaps_only"); raw != "" {
		gapsOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return models.Parameters{}, &models.ValidationError{Field: "gaps_only", Value: raw, Reason: "not a boolean"}
		}
	}
	return models.Parameters{RadiusMiles: radius, HeatWeight: heat, GapsOnly: gapsOnly}, nil
}

func floatQuery(c *gin.Context, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &models.ValidationError{Field: key, Value: raw, Reason: "not a number"}
	}
	return v, nil
}

func newAnalysisResponse(res *models.Result, params models.Parameters) AnalysisResponse {
	return AnalysisResponse{
		Summary:    render.Summarize(res),
		HeatWeight: res.HeatWeight,
		GapsOnly:   params.GapsOnly,
		Points:     res.Visualization,
	}
}
