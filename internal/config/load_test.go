package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := t.TempDir()
	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "TestApp"
	testPort := 9090
	testLogLevel := "debug"
	testKafkaBrokers := "kafka1:9092,kafka2:9092"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nKAFKA_BROKERS=%s\nREPORT_TIMEZONE=Africa/Nairobi\nREPORT_SETTLED_STATUSES=Approved, completed ,\n",
		testAppName, testPort, testLogLevel, testKafkaBrokers,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()
	require.NoError(t, os.Chdir(tempDir))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testKafkaBrokers, cfg.Kafka.Brokers)
	assert.Equal(t, "Africa/Nairobi", cfg.Report.Timezone)
	assert.Equal(t, "Africa/Nairobi", cfg.Report.Location().String())
	assert.Equal(t, []string{"approved", "completed"}, cfg.Report.SettledStatuses)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "ledger_events", cfg.Kafka.LedgerEventTopic)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, 10, cfg.WorkerPool.Size)
	assert.Equal(t, int32(2), cfg.Report.CurrencyExponent)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := LoadConfig("does_not_exist")
	require.NoError(t, err)
	assert.Equal(t, "pettycash-ledger", cfg.Application.Name)
	assert.Equal(t, time.UTC, cfg.Report.Location())
}

func TestConfig_Validate(t *testing.T) {
	defaults := func() *Config {
		v := viper.New()
		setDefaults(v)
		return fromViper(v)
	}

	t.Run("DefaultsAreValid", func(t *testing.T) {
		assert.NoError(t, defaults().validate())
	})

	tests := []struct {
		name     string
		mutate   func(*Config)
		expected string
	}{
		{name: "Port", mutate: func(c *Config) { c.Server.Port = 0 }, expected: "SERVER_PORT"},
		{name: "LogFormat", mutate: func(c *Config) { c.Logging.Format = "xml" }, expected: "LOG_FORMAT"},
		{name: "Topic", mutate: func(c *Config) { c.Kafka.LedgerEventTopic = "" }, expected: "KAFKA_LEDGER_EVENT_TOPIC"},
		{name: "Timezone", mutate: func(c *Config) { c.Report.Timezone = "Mars/Olympus" }, expected: "REPORT_TIMEZONE"},
		{name: "Exponent", mutate: func(c *Config) { c.Report.CurrencyExponent = -1 }, expected: "REPORT_CURRENCY_EXPONENT"},
		{name: "MaxHistory", mutate: func(c *Config) { c.Report.MaxHistory = 0 }, expected: "REPORT_MAX_HISTORY"},
		{name: "MetricsPath", mutate: func(c *Config) { c.Metrics.Path = "metrics" }, expected: "METRICS_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}

	t.Run("ErrorsAreAggregated", func(t *testing.T) {
		cfg := defaults()
		cfg.Server.Port = 0
		cfg.Outbox.BatchSize = 0
		err := cfg.validate()
		require.Error(t, err)
		assert.Equal(t, 2, len(strings.Split(err.Error(), ", ")))
	})
}
