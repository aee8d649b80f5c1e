package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cryptrend/analytics/internal/indicators"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration: where the database lives,
// how the analysis run behaves, and how the query API is exposed.
type Config struct {
	Postgres   PostgresConfig  `yaml:"postgres"`
	Analysis   AnalysisConfig  `yaml:"analysis"`
	Indicators IndicatorConfig `yaml:"indicators"`
	API        APIConfig       `yaml:"api"`
	// Assets is the curated ticker list the ingestion interface (see
	// SPEC_FULL.md §3) populates price_data for; the core itself reads
	// whatever is active in the database, but this list is what a
	// fresh deployment seeds cryptocurrencies with.
	Assets []string `yaml:"assets"`
}

// PostgresConfig mirrors storage.PostgresConfig as plain YAML-tagged
// fields so it can be loaded without importing the storage package.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConns        int           `yaml:"maxConns"`
	MaxIdle         int           `yaml:"maxIdle"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// AnalysisConfig drives the orchestrator's run behavior.
type AnalysisConfig struct {
	Mode            string        `yaml:"mode"` // "legacy" or "advanced"
	Debug           bool          `yaml:"debug"`
	WorkerCount     int           `yaml:"workerCount"` // 0 means runtime.NumCPU()
	BarLookbackDays int           `yaml:"barLookbackDays"`
	DedupeWindow    time.Duration `yaml:"dedupeWindow"`
}

// IndicatorConfig mirrors indicators.Config as plain YAML-tagged
// fields for the same reason PostgresConfig does.
type IndicatorConfig struct {
	RSIPeriod     int     `yaml:"rsiPeriod"`
	RSIOverbought float64 `yaml:"rsiOverbought"`
	RSIOversold   float64 `yaml:"rsiOversold"`

	MACDFast   int `yaml:"macdFast"`
	MACDSlow   int `yaml:"macdSlow"`
	MACDSignal int `yaml:"macdSignal"`

	BBPeriod           int     `yaml:"bbPeriod"`
	BBStdDev           float64 `yaml:"bbStdDev"`
	BBSqueezeThreshold float64 `yaml:"bbSqueezeThreshold"`

	ADXPeriod            int     `yaml:"adxPeriod"`
	ADXTrendingThreshold float64 `yaml:"adxTrendingThreshold"`

	ATRPeriod           int     `yaml:"atrPeriod"`
	ATRHighVolThreshold float64 `yaml:"atrHighVolThreshold"`
}

// APIConfig represents the query API server configuration.
type APIConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"corsOrigins"`
}

// ToIndicatorsConfig converts the YAML-facing shape to indicators.Config.
func (c IndicatorConfig) ToIndicatorsConfig() indicators.Config {
	return indicators.Config{
		RSIPeriod:            c.RSIPeriod,
		RSIOverbought:        c.RSIOverbought,
		RSIOversold:          c.RSIOversold,
		MACDFast:             c.MACDFast,
		MACDSlow:             c.MACDSlow,
		MACDSignal:           c.MACDSignal,
		BBPeriod:             c.BBPeriod,
		BBStdDev:             c.BBStdDev,
		BBSqueezeThreshold:   c.BBSqueezeThreshold,
		ADXPeriod:            c.ADXPeriod,
		ADXTrendingThreshold: c.ADXTrendingThreshold,
		ATRPeriod:            c.ATRPeriod,
		ATRHighVolThreshold:  c.ATRHighVolThreshold,
	}
}

// Load loads configuration from a YAML file, then applies defaults for
// anything missing, then applies CRYPTREND_-prefixed environment
// variable overrides (loaded from a .env file via godotenv when
// present, same as the rest of the ecosystem expects). Env overrides
// win over the YAML file, matching twelve-factor config precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration with no file or env
// overrides applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = "localhost"
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = 5432
	}
	if cfg.Postgres.User == "" {
		cfg.Postgres.User = "postgres"
	}
	if cfg.Postgres.Password == "" {
		cfg.Postgres.Password = "postgres"
	}
	if cfg.Postgres.DBName == "" {
		cfg.Postgres.DBName = "cryptrend"
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = 25
	}
	if cfg.Postgres.MaxIdle == 0 {
		cfg.Postgres.MaxIdle = 5
	}
	if cfg.Postgres.ConnMaxLifetime == 0 {
		cfg.Postgres.ConnMaxLifetime = 5 * time.Minute
	}

	if cfg.Analysis.Mode == "" {
		cfg.Analysis.Mode = "advanced"
	}
	if cfg.Analysis.BarLookbackDays == 0 {
		cfg.Analysis.BarLookbackDays = 180
	}
	if cfg.Analysis.DedupeWindow == 0 {
		cfg.Analysis.DedupeWindow = 3 * 24 * time.Hour
	}

	ind := indicators.DefaultConfig()
	if cfg.Indicators.RSIPeriod == 0 {
		cfg.Indicators.RSIPeriod = ind.RSIPeriod
	}
	if cfg.Indicators.RSIOverbought == 0 {
		cfg.Indicators.RSIOverbought = ind.RSIOverbought
	}
	if cfg.Indicators.RSIOversold == 0 {
		cfg.Indicators.RSIOversold = ind.RSIOversold
	}
	if cfg.Indicators.MACDFast == 0 {
		cfg.Indicators.MACDFast = ind.MACDFast
	}
	if cfg.Indicators.MACDSlow == 0 {
		cfg.Indicators.MACDSlow = ind.MACDSlow
	}
	if cfg.Indicators.MACDSignal == 0 {
		cfg.Indicators.MACDSignal = ind.MACDSignal
	}
	if cfg.Indicators.BBPeriod == 0 {
		cfg.Indicators.BBPeriod = ind.BBPeriod
	}
	if cfg.Indicators.BBStdDev == 0 {
		cfg.Indicators.BBStdDev = ind.BBStdDev
	}
	if cfg.Indicators.BBSqueezeThreshold == 0 {
		cfg.Indicators.BBSqueezeThreshold = ind.BBSqueezeThreshold
	}
	if cfg.Indicators.ADXPeriod == 0 {
		cfg.Indicators.ADXPeriod = ind.ADXPeriod
	}
	if cfg.Indicators.ADXTrendingThreshold == 0 {
		cfg.Indicators.ADXTrendingThreshold = ind.ADXTrendingThreshold
	}
	if cfg.Indicators.ATRPeriod == 0 {
		cfg.Indicators.ATRPeriod = ind.ATRPeriod
	}
	if cfg.Indicators.ATRHighVolThreshold == 0 {
		cfg.Indicators.ATRHighVolThreshold = ind.ATRHighVolThreshold
	}

	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if len(cfg.API.CORSOrigins) == 0 {
		cfg.API.CORSOrigins = []string{"*"}
	}
}

// applyEnvOverrides lets deployment environments override the handful
// of settings that typically differ per environment (database
// connection, server port) without editing the YAML file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRYPTREND_DB_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("CRYPTREND_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("CRYPTREND_DB_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("CRYPTREND_DB_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("CRYPTREND_DB_NAME"); v != "" {
		cfg.Postgres.DBName = v
	}
	if v := os.Getenv("CRYPTREND_ANALYSIS_MODE"); v != "" {
		cfg.Analysis.Mode = v
	}
	if v := os.Getenv("CRYPTREND_API_PORT"); v != "" {
		cfg.API.Port = v
	}
}

// Save writes the configuration back to a YAML file, useful for
// dumping a generated default config as a starting point.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
