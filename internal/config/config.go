package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/giorgikontridze/health-intel-dash/internal/models"
)

// Config holds the full application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Data       DataConfig       `yaml:"data" mapstructure:"data"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Report     ReportConfig     `yaml:"report" mapstructure:"report"`
	Facilities []FacilityConfig `yaml:"facilities" mapstructure:"facilities"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int    `yaml:"port" mapstructure:"port"`
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DataConfig points at the demand workbook.
type DataConfig struct {
	Path            string `yaml:"path" mapstructure:"path"`
	Sheet           string `yaml:"sheet" mapstructure:"sheet"`
	LatitudeColumn  string `yaml:"latitude_column" mapstructure:"latitude_column"`
	LongitudeColumn string `yaml:"longitude_column" mapstructure:"longitude_column"`
}

// AnalysisConfig holds default parameters and how the reducer runs.
type AnalysisConfig struct {
	RadiusMiles float64 `yaml:"radius_miles" mapstructure:"radius_miles"`
	HeatWeight  float64 `yaml:"heat_weight" mapstructure:"heat_weight"`
	Workers     int     `yaml:"workers" mapstructure:"workers"`
	Index       string  `yaml:"index" mapstructure:"index"`
}

// ReportConfig names the exported workbook.
type ReportConfig struct {
	Filename string `yaml:"filename" mapstructure:"filename"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
}

// FacilityConfig is one entry of the fixed facility list.
type FacilityConfig struct {
	ID        string  `yaml:"id" mapstructure:"id"`
	Name      string  `yaml:"name" mapstructure:"name"`
	Latitude  float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude float64 `yaml:"longitude" mapstructure:"longitude"`
}

const (
	IndexLinear = "linear"
	IndexRTree  = "rtree"
)

var defaultFacilities = []map[string]interface{}{
	{"id": "H1", "name": "Downtown Clinic", "latitude": 38.2527, "longitude": -85.7585},
	{"id": "H2", "name": "East Hub", "latitude": 38.2450, "longitude": -85.6000},
	{"id": "H3", "name": "West Medical", "latitude": 38.2600, "longitude": -85.8500},
	{"id": "H4", "name": "South Center", "latitude": 38.1800, "longitude": -85.7500},
	{"id": "H5", "name": "North Health", "latitude": 38.3200, "longitude": -85.7000},
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom is Load on a caller-supplied viper instance, letting callers bind
// flags or set a config file first.
func LoadFrom(v *viper.Viper) (*Config, error) {
	// Config file; SetConfigName would discard an explicit SetConfigFile.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("HEALTHINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("data.path", "patients.xlsx")
	v.SetDefault("data.latitude_column", "Latitude")
	v.SetDefault("data.longitude_column", "Longitude")
	v.SetDefault("analysis.radius_miles", 5.0)
	v.SetDefault("analysis.heat_weight", 0.5)
	v.SetDefault("analysis.workers", 1)
	v.SetDefault("analysis.index", IndexLinear)
	v.SetDefault("report.filename", "Health_Intel_Report.xlsx")
	v.SetDefault("report.sheet", "Report")
	v.SetDefault("facilities", defaultFacilities)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late, at request time.
func (c *Config) Validate() error {
	switch c.Analysis.Index {
	case IndexLinear, IndexRTree:
	default:
		return eris.Errorf("config: analysis.index must be %q or %q, got %q", IndexLinear, IndexRTree, c.Analysis.Index)
	}
	if c.Analysis.RadiusMiles <= 0 {
		return eris.Errorf("config: analysis.radius_miles must be positive, got %v", c.Analysis.RadiusMiles)
	}
	if c.Analysis.HeatWeight <= 0 || c.Analysis.HeatWeight > 1 {
		return eris.Errorf("config: analysis.heat_weight must be within (0, 1], got %v", c.Analysis.HeatWeight)
	}
	return nil
}

// FacilitySet builds the immutable facility set from the configured list.
func (c *Config) FacilitySet() (*models.FacilitySet, error) {
	items := make([]models.Facility, len(c.Facilities))
	for i, f := range c.Facilities {
		items[i] = models.Facility{
			ID:   f.ID,
			Name: f.Name,
			Loc:  models.Coordinate{Lat: f.Latitude, Lon: f.Longitude},
		}
	}
	fs, err := models.NewFacilitySet(items)
	if err != nil {
		return nil, eris.Wrap(err, "config: facilities")
	}
	return fs, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
