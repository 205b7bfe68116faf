package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			envVars: map[string]string{
				"APP_ENV":        "",
				"APP_PORT":       "",
				"POSTGRES_DSN":   "",
				"REDIS_ADDR":     "",
				"WEBHOOK_SECRET": "",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "offer-service", cfg.App.Name)
				assert.Equal(t, "0.0.0.0:3001", cfg.App.Addr())
				assert.Equal(t, 15*time.Second, cfg.App.RequestTimeout())
				assert.Empty(t, cfg.Postgres.DSN)
				assert.Empty(t, cfg.Redis.Addr)
				assert.False(t, cfg.Webhook.VerificationEnabled())
				assert.Equal(t, 24*time.Hour, cfg.Webhook.DedupeTTL())
				assert.Equal(t, 30*time.Minute, cfg.Auth.PasswordResetTTL())
				assert.False(t, cfg.Auth.ExposeResetToken)
			},
		},
		{
			name: "overrides",
			envVars: map[string]string{
				"APP_PORT":                         "9000",
				"HTTP_REQUEST_TIMEOUT_SECONDS":     "0",
				"POSTGRES_MAX_CONNS":               "25",
				"POSTGRES_RUN_MIGRATIONS":          "false",
				"WEBHOOK_SECRET":                   "s3cret",
				"WEBHOOK_DEDUPE_TTL_MINUTES":       "5",
				"AUTH_PASSWORD_RESET_TTL_MINUTES":  "10",
				"AUTH_PASSWORD_RESET_EXPOSE_TOKEN": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "9000", cfg.App.Port)
				assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
				assert.Equal(t, int32(25), cfg.Postgres.MaxConns)
				assert.False(t, cfg.Postgres.RunMigrations)
				assert.True(t, cfg.Webhook.VerificationEnabled())
				assert.Equal(t, 5*time.Minute, cfg.Webhook.DedupeTTL())
				assert.Equal(t, 10*time.Minute, cfg.Auth.PasswordResetTTL())
				assert.True(t, cfg.Auth.ExposeResetToken)
			},
		},
		{
			name:    "malformed ints fall back to defaults",
			envVars: map[string]string{"AUTH_BCRYPT_COST": "lots"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 12, cfg.Auth.BcryptCost)
			},
		},
		{
			name:    "invalid redis db",
			envVars: map[string]string{"REDIS_DB": "zero"},
			wantErr: true,
		},
		{
			name:    "production requires a real jwt secret",
			envVars: map[string]string{"APP_ENV": "production"},
			wantErr: true,
		},
		{
			name: "production never exposes reset tokens",
			envVars: map[string]string{
				"APP_ENV":                          "production",
				"AUTH_JWT_SECRET":                  "real-secret",
				"AUTH_PASSWORD_RESET_EXPOSE_TOKEN": "true",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
