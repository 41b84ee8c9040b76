package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("INVITE_TTL", "")
	t.Setenv("INVITE_DEFAULT_MAX_USES", "")
	t.Setenv("FRONTEND_URL", "https://trips.example.com/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*24*time.Hour, cfg.Invite.TTL)
	assert.Equal(t, 10, cfg.Invite.DefaultMaxUses)
	assert.Equal(t, "https://trips.example.com", cfg.Server.FrontendURL)
	assert.Contains(t, cfg.Server.AllowedOrigins, "https://trips.example.com")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/trips.db")
	t.Setenv("INVITE_TTL", "72h")
	t.Setenv("INVITE_DEFAULT_MAX_USES", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("FRONTEND_URL", "https://a.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 72*time.Hour, cfg.Invite.TTL)
	assert.Equal(t, 3, cfg.Invite.DefaultMaxUses)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/trips.db?_busy_timeout=5000&_foreign_keys=on", cfg.GetDSN())
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := Config{
		Database: DatabaseConfig{Driver: "postgres"},
		App:      AppConfig{JWTSecret: "secret"},
		Invite:   InviteConfig{TTL: time.Hour, DefaultMaxUses: 1},
	}
	require.NoError(t, base.Validate())

	badDriver := base
	badDriver.Database.Driver = "mysql"
	assert.Error(t, badDriver.Validate())

	badUses := base
	badUses.Invite.DefaultMaxUses = 0
	assert.Error(t, badUses.Validate())

	badTTL := base
	badTTL.Invite.TTL = 0
	assert.Error(t, badTTL.Validate())
}

func TestGetDSNPostgres(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{
		Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", DBName: "trips", SSLMode: "disable",
	}}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=trips sslmode=disable", cfg.GetDSN())
	assert.Equal(t, "postgres://u:p@db:5432/trips?sslmode=disable", cfg.GetMigrationURL())
}
