package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/near-space-etl/internal/analysis"
	"github.com/couchcryptid/near-space-etl/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/USM00072403-data.txt", cfg.IGRAFile)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, domain.Month{Year: 2010, Month: time.January}, cfg.MergeFloor)
	assert.Equal(t, 6, cfg.AeronetSkipLines)
	assert.Equal(t, []string{"-9999", "-8888"}, cfg.SoundingSentinels)
	assert.Equal(t, []string{"-999.000000"}, cfg.AerosolSentinels)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.ParquetEnabled)
	assert.False(t, cfg.ChartEnabled)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "near-space-monthly", cfg.KafkaTopic)
	assert.Empty(t, cfg.PushgatewayURL)
	assert.Equal(t, analysis.DefaultThresholds(), cfg.Thresholds)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("IGRA_FILE", "in/igra.txt.gz")
	t.Setenv("AOD_FILE", "in/aod.lev20")
	t.Setenv("SDA_FILE", "in/sda.lev20")
	t.Setenv("OUTPUT_DIR", "out")
	t.Setenv("MERGE_FLOOR", "2012-06")
	t.Setenv("AERONET_SKIP_LINES", "5")
	t.Setenv("SOUNDING_SENTINELS", "-9999, -7777")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("PARQUET_ENABLED", "true")
	t.Setenv("CHART_ENABLED", "1")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")
	t.Setenv("PUSHGATEWAY_URL", "http://pushgateway:9091")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "in/igra.txt.gz", cfg.IGRAFile)
	assert.Equal(t, "in/aod.lev20", cfg.AODFile)
	assert.Equal(t, "in/sda.lev20", cfg.SDAFile)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, domain.Month{Year: 2012, Month: time.June}, cfg.MergeFloor)
	assert.Equal(t, 5, cfg.AeronetSkipLines)
	assert.Equal(t, []string{"-9999", "-7777"}, cfg.SoundingSentinels)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.ParquetEnabled)
	assert.True(t, cfg.ChartEnabled)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
	assert.Equal(t, "http://pushgateway:9091", cfg.PushgatewayURL)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"merge floor", "MERGE_FLOOR", "2010/01", "MERGE_FLOOR"},
		{"skip lines", "AERONET_SKIP_LINES", "-1", "AERONET_SKIP_LINES"},
		{"skip lines text", "AERONET_SKIP_LINES", "six", "AERONET_SKIP_LINES"},
		{"parquet flag", "PARQUET_ENABLED", "maybe", "PARQUET_ENABLED"},
		{"chart flag", "CHART_ENABLED", "maybe", "CHART_ENABLED"},
		{"sentinels", "SOUNDING_SENTINELS", " , ", "SOUNDING_SENTINELS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ThresholdsFile(t *testing.T) {
	t.Setenv("THRESHOLDS_FILE", writeFile(t, "strong_inversion_k: 10\nhigh_fine_aod: 0.25\nmin_pairs: 5\n"))

	cfg, err := Load()
	require.NoError(t, err)

	want := analysis.DefaultThresholds()
	want.StrongInversionK = 10
	want.HighFineAOD = 0.25
	want.MinPairs = 5
	assert.Equal(t, want, cfg.Thresholds)
}

func TestLoadThresholds_EmptyFileKeepsDefaults(t *testing.T) {
	th, err := LoadThresholds(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultThresholds(), th)
}

func TestLoadThresholds_UnknownKey(t *testing.T) {
	_, err := LoadThresholds(writeFile(t, "strong_inversion: 10\n"))
	assert.Error(t, err)
}

func TestLoadThresholds_MissingFile(t *testing.T) {
	_, err := LoadThresholds(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidThresholds(t *testing.T) {
	t.Setenv("THRESHOLDS_FILE", writeFile(t, "dispersion_good_below_k: 20\n"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid thresholds")
}
