package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("POSTGRES_DSN", "  postgres://u:p@localhost/db \n")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("DEBUG", "true")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	// DSN 两端空白被清理
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.PostgresDSN)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Debug)
}

func TestProductionForcesDebugOff(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DEBUG", "true")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost/db")

	cfg := LoadConfig()

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "development defaults pass", mutate: func(c *Config) {}},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: "PORT is required",
		},
		{
			name: "production needs real jwt secret",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.JWTSecret = "your-secret-key-change-in-production"
				c.PostgresDSN = "postgres://u:p@localhost/db"
			},
			wantErr: "JWT_SECRET must be set in production",
		},
		{
			name: "production needs database",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.JWTSecret = "prod-secret"
				c.PostgresDSN = ""
			},
			wantErr: "POSTGRES_DSN must be set in production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Environment: "development",
				Port:        "3001",
				JWTSecret:   "test-secret",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
