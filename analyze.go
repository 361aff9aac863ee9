package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
	"github.com/giorgikontridze/health-intel-dash/internal/render"
)

var analyzeFlags struct {
	input    string
	sheet    string
	radius   float64
	heat     float64
	gapsOnly bool
	geojson  string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the coverage summary for a demand workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, fs, err := newAnalyzer(cfg)
		if err != nil {
			return err
		}

		params := models.Parameters{
			RadiusMiles: cfg.Analysis.RadiusMiles,
			HeatWeight:  cfg.Analysis.HeatWeight,
			GapsOnly:    analyzeFlags.gapsOnly,
		}
		if cmd.Flags().Changed("radius") {
			params.RadiusMiles = analyzeFlags.radius
		}
		if cmd.Flags().Changed("heat") {
			params.HeatWeight = analyzeFlags.heat
		}

		points, err := demandSource(cfg, analyzeFlags.input, analyzeFlags.sheet).Load(commandContext(cmd))
		if err != nil {
			return err
		}
		res, err := analyzer.Analyze(points, params)
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), res)

		if analyzeFlags.geojson != "" {
			if err := writeLayers(analyzeFlags.geojson, res, fs); err != nil {
				return err
			}
			zap.L().Info("map layers written",
				zap.String("path", analyzeFlags.geojson),
				zap.Int("features", len(res.Visualization)+fs.Len()),
			)
		}
		return nil
	},
}

func printSummary(w io.Writer, res *models.Result) {
	s := render.Summarize(res)
	fmt.Fprintf(w, "TOTAL COVERAGE  %s\n", s.CoveragePercent)
	fmt.Fprintf(w, "radius          %g mi\n", s.RadiusMiles)
	fmt.Fprintf(w, "covered         %d\n", s.Covered)
	fmt.Fprintf(w, "gaps            %d\n", s.Gaps)
	fmt.Fprintf(w, "total           %d\n", s.Total)
}

func writeLayers(path string, res *models.Result, fs *models.FacilitySet) error {
	data, err := render.Layers(res, fs).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode layers: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layers: %w", err)
	}
	return nil
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.input, "input", "", "demand workbook (default data.path)")
	f.StringVar(&analyzeFlags.sheet, "sheet", "", "sheet name (default first sheet)")
	f.Float64Var(&analyzeFlags.radius, "radius", 0, "service radius in miles (default analysis.radius_miles)")
	f.Float64Var(&analyzeFlags.heat, "heat", 0, "heatmap weight in (0, 1] (default analysis.heat_weight)")
	f.BoolVar(&analyzeFlags.gapsOnly, "gaps-only", false, "only emit gap points to the map layers")
	f.StringVar(&analyzeFlags.geojson, "geojson", "", "write GeoJSON map layers to this path")
	rootCmd.AddCommand(analyzeCmd)
}

// commandContext keeps the context non-nil when a command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
