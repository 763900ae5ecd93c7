package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5000, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, []string{"http://localhost:5000"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 5, cfg.Security.RateLimit.Burst)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "lenient", cfg.Catalog.IDPolicy)
				assert.Empty(t, cfg.Catalog.SeedFile)

				assert.Equal(t, 1024, cfg.WebSocket.ReadBufferSize)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"PRODUCTAPI_SERVER_PORT":             "9090",
				"PRODUCTAPI_SERVER_READ_TIMEOUT":     "30s",
				"PRODUCTAPI_SECURITY_ALLOWED_ORIGINS": "http://example.com,https://example.com",
				"PRODUCTAPI_SECURITY_ENABLE_CORS":    "false",
				"PRODUCTAPI_LOGGING_LEVEL":           "debug",
				"PRODUCTAPI_LOGGING_FORMAT":          "text",
				"PRODUCTAPI_CATALOG_ID_POLICY":       "strict",
				"PRODUCTAPI_WEBSOCKET_READ_BUFFER_SIZE": "2048",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.False(t, cfg.Security.EnableCORS)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, "strict", cfg.Catalog.IDPolicy)
				assert.Equal(t, 2048, cfg.WebSocket.ReadBufferSize)
			},
		},
		{
			name: "unknown log format falls back to json",
			env:  map[string]string{"PRODUCTAPI_LOGGING_FORMAT": "xml"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"PRODUCTAPI_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "zero port number",
			env:     map[string]string{"PRODUCTAPI_SERVER_PORT": "0"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"PRODUCTAPI_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "unknown id policy",
			env:     map[string]string{"PRODUCTAPI_CATALOG_ID_POLICY": "fuzzy"},
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"PRODUCTAPI_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: true,
		},
		{
			name: "config file values",
			fileContent: `
server:
  port: 6060
  read_timeout: 20s
catalog:
  id_policy: strict
  seed_file: seed.yaml
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "strict", cfg.Catalog.IDPolicy)
				assert.Equal(t, "seed.yaml", cfg.Catalog.SeedFile)
				// untouched sections keep their defaults
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
			},
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"PRODUCTAPI_SERVER_PORT":   "7070",
				"PRODUCTAPI_LOGGING_LEVEL": "warn",
			},
			fileContent: `
server:
  port: 6060
logging:
  level: error
security:
  allowed_origins: ["http://file.example.com"]
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, []string{"http://file.example.com"}, cfg.Security.AllowedOrigins)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Point at a file that does not exist unless the case writes one
			configFile := filepath.Join(t.TempDir(), "config.yaml")
			t.Setenv(EnvPrefix+"_CONFIG_FILE", "")
			if tt.fileContent != "" {
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
				t.Setenv(EnvPrefix+"_CONFIG_FILE", configFile)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv(EnvPrefix+"_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, Default().validate())
	})

	t.Run("unknown log output falls back to console", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "syslog"
		require.NoError(t, cfg.validate())
		assert.Equal(t, "console", cfg.Logging.Output)
	})

	t.Run("cors without origins is rejected", func(t *testing.T) {
		cfg := Default()
		cfg.Security.AllowedOrigins = nil
		assert.Error(t, cfg.validate())
	})

	t.Run("rate limit requires positive burst", func(t *testing.T) {
		cfg := Default()
		cfg.Security.RateLimit.Burst = 0
		assert.Error(t, cfg.validate())

		cfg.Security.RateLimit.Enabled = false
		assert.NoError(t, cfg.validate())
	})
}
