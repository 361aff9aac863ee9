package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/giorgikontridze/health-intel-dash/internal/excel"
)

var reportFlags struct {
	input  string
	sheet  string
	radius float64
	output string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the demand table with Distance and Status columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, _, err := newAnalyzer(cfg)
		if err != nil {
			return err
		}

		radius := cfg.Analysis.RadiusMiles
		if cmd.Flags().Changed("radius") {
			radius = reportFlags.radius
		}
		output := reportFlags.output
		if output == "" {
			output = cfg.Report.Filename
		}

		points, err := demandSource(cfg, reportFlags.input, reportFlags.sheet).Load(commandContext(cmd))
		if err != nil {
			return err
		}
		rows, err := analyzer.BuildReport(points, radius)
		if err != nil {
			return err
		}
		if err := excel.SaveReport(output, rows, cfg.Report.Sheet); err != nil {
			return err
		}

		zap.L().Info("report written",
			zap.String("path", output),
			zap.Int("rows", len(rows)),
			zap.Float64("radius_miles", radius),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", len(rows), output)
		return nil
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.input, "input", "", "demand workbook (default data.path)")
	f.StringVar(&reportFlags.sheet, "sheet", "", "sheet name (default first sheet)")
	f.Float64Var(&reportFlags.radius, "radius", 0, "service radius in miles (default analysis.radius_miles)")
	f.StringVarP(&reportFlags.output, "output", "o", "", "output workbook (default report.filename)")
	rootCmd.AddCommand(reportCmd)
}
