package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Census      CensusConfig      `yaml:"census" mapstructure:"census"`
	Geocoder    GeocoderConfig    `yaml:"geocoder" mapstructure:"geocoder"`
	Competitors CompetitorsConfig `yaml:"competitors" mapstructure:"competitors"`
	BlockGroups BlockGroupsConfig `yaml:"blockgroups" mapstructure:"blockgroups"`
	Schools     SchoolsConfig     `yaml:"schools" mapstructure:"schools"`
	Ledger      LedgerConfig      `yaml:"ledger" mapstructure:"ledger"`
	Publish     PublishConfig     `yaml:"publish" mapstructure:"publish"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// CensusConfig configures the Census data API and TIGER downloads.
type CensusConfig struct {
	APIKey              string `yaml:"api_key" mapstructure:"api_key"`
	ACSBaseURL          string `yaml:"acs_base_url" mapstructure:"acs_base_url"`
	TigerBaseURL        string `yaml:"tiger_base_url" mapstructure:"tiger_base_url"`
	TempDir             string `yaml:"temp_dir" mapstructure:"temp_dir"`
	UserAgent           string `yaml:"user_agent" mapstructure:"user_agent"`
	ACSTimeoutSecs      int    `yaml:"acs_timeout_secs" mapstructure:"acs_timeout_secs"`
	DownloadTimeoutSecs int    `yaml:"download_timeout_secs" mapstructure:"download_timeout_secs"`
}

// GeocoderConfig configures the Census one-line geocoder.
type GeocoderConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Benchmark   string  `yaml:"benchmark" mapstructure:"benchmark"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CompetitorsConfig configures the competitor schools artifact.
type CompetitorsConfig struct {
	Output  string `yaml:"output" mapstructure:"output"`
	Catalog string `yaml:"catalog" mapstructure:"catalog"`
}

// BlockGroupsConfig configures the block-group demographics artifact.
type BlockGroupsConfig struct {
	Output       string  `yaml:"output" mapstructure:"output"`
	GeoJSON      string  `yaml:"geojson" mapstructure:"geojson"`
	State        string  `yaml:"state" mapstructure:"state"`
	County       string  `yaml:"county" mapstructure:"county"`
	ACSYear      int     `yaml:"acs_year" mapstructure:"acs_year"`
	TigerYear    int     `yaml:"tiger_year" mapstructure:"tiger_year"`
	PctChristian float64 `yaml:"pct_christian" mapstructure:"pct_christian"`
	PctFirstGen  float64 `yaml:"pct_first_gen" mapstructure:"pct_first_gen"`
}

// SchoolsConfig configures the census schools artifact.
type SchoolsConfig struct {
	Output   string   `yaml:"output" mapstructure:"output"`
	Year     int      `yaml:"year" mapstructure:"year"`
	State    string   `yaml:"state" mapstructure:"state"`
	Counties []string `yaml:"counties" mapstructure:"counties"`
	Capacity int      `yaml:"capacity" mapstructure:"capacity"`
	Exclude  []string `yaml:"exclude" mapstructure:"exclude"`
}

// LedgerConfig configures the optional SQLite run ledger. Empty path disables it.
type LedgerConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PublishConfig configures the optional PostGIS publisher.
type PublishConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// CensusKeyEnvVars are checked in order when census.api_key is unset.
var CensusKeyEnvVars = []string{
	"CENSUS_API_KEY",
	"CensusBureauAPI_KEY",
	"CENSUSBUREAUAPI_KEY",
	"CENSUS_KEY",
}

// DotEnvFiles are loaded, when present, before the environment is read.
// Variables already set in the process environment win.
var DotEnvFiles = []string{".env", "MyKeys/.env"}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	for _, f := range DotEnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, eris.Wrapf(err, "config: load %s", f)
		}
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("census.api_key", "")
	v.SetDefault("census.acs_base_url", "https://api.census.gov/data")
	v.SetDefault("census.tiger_base_url", "https://www2.census.gov/geo/tiger")
	v.SetDefault("census.temp_dir", "")
	v.SetDefault("census.user_agent", "siting-cli/1.0")
	v.SetDefault("census.acs_timeout_secs", 60)
	v.SetDefault("census.download_timeout_secs", 60)
	v.SetDefault("geocoder.base_url", "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress")
	v.SetDefault("geocoder.benchmark", "Public_AR_Current")
	v.SetDefault("geocoder.timeout_secs", 30)
	v.SetDefault("geocoder.rate_limit", 10.0)
	v.SetDefault("competitors.output", "competition_schools.csv")
	v.SetDefault("competitors.catalog", "")
	v.SetDefault("blockgroups.output", "demographics_block_groups.csv")
	v.SetDefault("blockgroups.geojson", "philadelphia_block_groups.geojson")
	v.SetDefault("blockgroups.state", "42")
	v.SetDefault("blockgroups.county", "101")
	v.SetDefault("blockgroups.acs_year", 2022)
	v.SetDefault("blockgroups.tiger_year", 2022)
	v.SetDefault("blockgroups.pct_christian", 25.0)
	v.SetDefault("blockgroups.pct_first_gen", 35.0)
	v.SetDefault("schools.output", "census_schools.csv")
	v.SetDefault("schools.year", 2023)
	v.SetDefault("schools.state", "42")
	v.SetDefault("schools.counties", []string{"029", "045", "091", "101"})
	v.SetDefault("schools.capacity", 400)
	v.SetDefault("schools.exclude", []string{"Cornerstone Christian Academy"})
	v.SetDefault("ledger.path", "")
	v.SetDefault("publish.database_url", "")
	v.SetDefault("publish.schema", "siting")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	return &cfg, nil
}

// CensusAPIKey returns census.api_key, else the first non-empty legacy
// environment variable. Empty means unauthenticated access.
func (c *Config) CensusAPIKey() string {
	if c.Census.APIKey != "" {
		return c.Census.APIKey
	}
	for _, name := range CensusKeyEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch {
	case c.BlockGroups.ACSYear <= 0 || c.BlockGroups.TigerYear <= 0 || c.Schools.Year <= 0:
		return eris.New("config: years must be positive")
	case len(c.Schools.Counties) == 0:
		return eris.New("config: schools.counties must list at least one county")
	case c.Schools.Capacity <= 0:
		return eris.New("config: schools.capacity must be positive")
	case c.Geocoder.RateLimit <= 0:
		return eris.New("config: geocoder.rate_limit must be positive")
	case c.Log.Format != "json" && c.Log.Format != "console":
		return eris.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
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
