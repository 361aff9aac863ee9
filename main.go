package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/giorgikontridze/health-intel-dash/internal/calculator"
	"github.com/giorgikontridze/health-intel-dash/internal/config"
	"github.com/giorgikontridze/health-intel-dash/internal/excel"
	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

var (
	cfg        *config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "health-intel",
	Short: "Facility coverage analysis",
	Long:  "Measures how far each demand point lies from its nearest facility, classifies it as covered or a gap for a service radius, and exports the result.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		if configFile != "" {
			v.SetConfigFile(configFile)
		}
		c, err := config.LoadFrom(v)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAnalyzer builds the facility set and the analyzer the config asks for.
func newAnalyzer(c *config.Config) (*calculator.Analyzer, *models.FacilitySet, error) {
	fs, err := c.FacilitySet()
	if err != nil {
		return nil, nil, err
	}

	var locator calculator.Locator
	switch c.Analysis.Index {
	case config.IndexRTree:
		locator = calculator.NewIndexedLocator(fs)
	default:
		locator = calculator.NewLinearLocator(fs)
	}

	zap.L().Info("facilities loaded",
		zap.Int("count", fs.Len()),
		zap.String("index", c.Analysis.Index),
		zap.Int("workers", c.Analysis.Workers),
	)

	a := calculator.NewAnalyzer(locator,
		calculator.WithWorkers(c.Analysis.Workers),
		calculator.WithLogger(zap.L().Named("calculator")),
	)
	return a, fs, nil
}

// demandSource returns the workbook source, with an optional path and sheet
// override from command flags.
func demandSource(c *config.Config, path, sheet string) excel.WorkbookSource {
	if path == "" {
		path = c.Data.Path
	}
	if sheet == "" {
		sheet = c.Data.Sheet
	}
	return excel.WorkbookSource{
		Path: path,
		Options: excel.ReadOptions{
			Sheet:           sheet,
			LatitudeColumn:  c.Data.LatitudeColumn,
			LongitudeColumn: c.Data.LongitudeColumn,
		},
	}
}
