package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/near-space-etl/internal/analysis"
	"github.com/couchcryptid/near-space-etl/internal/domain"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	IGRAFile  string
	AODFile   string
	SDAFile   string
	OutputDir string

	MergeFloor        domain.Month
	AeronetSkipLines  int
	SoundingSentinels []string
	AerosolSentinels  []string

	LogLevel  string
	LogFormat string

	// Optional sinks.
	ParquetEnabled bool
	ChartEnabled   bool
	KafkaBrokers   []string
	KafkaTopic     string
	PushgatewayURL string

	ThresholdsFile string
	Thresholds     analysis.Thresholds
}

// KafkaEnabled reports whether merged months are published.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	floor, err := domain.ParseMonth(sharedcfg.EnvOrDefault("MERGE_FLOOR", domain.DefaultMergeFloor.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid MERGE_FLOOR: %w", err)
	}

	skip, err := strconv.Atoi(sharedcfg.EnvOrDefault("AERONET_SKIP_LINES", "6"))
	if err != nil || skip < 0 {
		return nil, errors.New("invalid AERONET_SKIP_LINES")
	}

	parquetEnabled, err := parseBool("PARQUET_ENABLED")
	if err != nil {
		return nil, err
	}
	chartEnabled, err := parseBool("CHART_ENABLED")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		IGRAFile:          sharedcfg.EnvOrDefault("IGRA_FILE", "data/USM00072403-data.txt"),
		AODFile:           sharedcfg.EnvOrDefault("AOD_FILE", "data/AOD/AOD20/MONTHLY/19930101_20251101_Dushanbe.lev20"),
		SDAFile:           sharedcfg.EnvOrDefault("SDA_FILE", "data/SDA/SDA20/MONTHLY/19930101_20251101_Dushanbe.ONEILL_lev20"),
		OutputDir:         sharedcfg.EnvOrDefault("OUTPUT_DIR", "outputs"),
		MergeFloor:        floor,
		AeronetSkipLines:  skip,
		SoundingSentinels: parseList(sharedcfg.EnvOrDefault("SOUNDING_SENTINELS", strings.Join(domain.DefaultSoundingSentinels, ","))),
		AerosolSentinels:  parseList(sharedcfg.EnvOrDefault("AEROSOL_SENTINELS", domain.DefaultAerosolSentinel)),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ParquetEnabled:    parquetEnabled,
		ChartEnabled:      chartEnabled,
		KafkaTopic:        sharedcfg.EnvOrDefault("KAFKA_TOPIC", "near-space-monthly"),
		PushgatewayURL:    os.Getenv("PUSHGATEWAY_URL"),
		ThresholdsFile:    os.Getenv("THRESHOLDS_FILE"),
		Thresholds:        analysis.DefaultThresholds(),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.ThresholdsFile != "" {
		th, err := LoadThresholds(cfg.ThresholdsFile)
		if err != nil {
			return nil, err
		}
		cfg.Thresholds = th
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that may also be changed after Load, e.g. by CLI flags.
func (c *Config) Validate() error {
	if c.IGRAFile == "" {
		return errors.New("IGRA_FILE is required")
	}
	if c.AODFile == "" {
		return errors.New("AOD_FILE is required")
	}
	if c.SDAFile == "" {
		return errors.New("SDA_FILE is required")
	}
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	if len(c.SoundingSentinels) == 0 {
		return errors.New("SOUNDING_SENTINELS must not be empty")
	}
	if c.KafkaEnabled() && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	return nil
}

// LoadThresholds reads a YAML thresholds file. Keys left out keep their defaults.
func LoadThresholds(path string) (analysis.Thresholds, error) {
	th := analysis.DefaultThresholds()
	f, err := os.Open(path)
	if err != nil {
		return th, fmt.Errorf("open thresholds file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&th); err != nil && !errors.Is(err, io.EOF) {
		return th, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}
	return th, nil
}

func parseBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
