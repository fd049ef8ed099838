package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("TOKEN_SECRET", "secret")
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "inventory.db", cfg.Storage.Path)
	assert.Equal(t, "inventory-storage", cfg.Storage.Key)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())

	loc, err := cfg.Inventory.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "ADMIN_PASSWORD=from-file\nTOKEN_SECRET=s\nAPP_PORT=9090\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"ADMIN_PASSWORD", "TOKEN_SECRET", "APP_PORT", "CORS_ALLOWED_ORIGINS"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.AdminPassword)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_RequiresPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("TOKEN_SECRET", "secret")

	_, err := Load(missingEnvFile(t))
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")
}

func TestLoad_RejectsBadTimezoneAndTTL(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err := Load(missingEnvFile(t))
	assert.ErrorContains(t, err, "TIMEZONE")

	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TOKEN_TTL", "forever")
	_, err = Load(missingEnvFile(t))
	assert.ErrorContains(t, err, "TOKEN_TTL")
}

func TestValidate_OptionalSinksMustBeComplete(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")

	_, err := Load(missingEnvFile(t))
	assert.ErrorContains(t, err, "GOOGLE_SHEETS_CREDENTIALS_PATH")

	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "")
	t.Setenv("WHATSAPP_TOKEN", "token")
	_, err = Load(missingEnvFile(t))
	assert.ErrorContains(t, err, "WHATSAPP_PHONE_NUMBER_ID")
}
