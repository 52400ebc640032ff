package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestLoadDevelopmentDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  env: development
jwt:
  secret: test-secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, EnvDevelopment, cfg.App.Env)
	require.False(t, cfg.IsProduction())
	require.True(t, cfg.App.Debug)

	// 8 days of session, the mobile default
	require.Equal(t, 60*24*8, cfg.JWT.AccessTokenTTLMin)
	require.Equal(t, "duso-api", cfg.JWT.Issuer)

	require.False(t, cfg.Cookie.Secure)
	require.Equal(t, "lax", cfg.Cookie.SameSite)
	require.Equal(t, []string{"*"}, cfg.CORS.Origins)
	require.Equal(t, 100, cfg.RateLimit.PerMinute)
	require.Equal(t, "debug", cfg.Log.Level)
	require.False(t, cfg.Log.JSON)
}

func TestLoadProductionDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
jwt:
  secret: test-secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.True(t, cfg.IsProduction())
	require.False(t, cfg.App.Debug)

	require.True(t, cfg.Cookie.Secure)
	require.Equal(t, "strict", cfg.Cookie.SameSite)
	require.Empty(t, cfg.CORS.Origins)
	require.Equal(t, 60, cfg.RateLimit.PerMinute)
	require.Equal(t, "info", cfg.Log.Level)
	require.True(t, cfg.Log.JSON)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
  debug: true
jwt:
  secret: test-secret
  accesstokenttlmin: 30
cookie:
  samesite: none
ratelimit:
  perminute: 500
  burst: 50
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.True(t, cfg.App.Debug)
	require.Equal(t, 30, cfg.JWT.AccessTokenTTLMin)
	require.Equal(t, "none", cfg.Cookie.SameSite)
	require.Equal(t, 500, cfg.RateLimit.PerMinute)
	require.Equal(t, 50, cfg.RateLimit.Burst)
}

func TestLoadMissingSecret(t *testing.T) {
	path := writeConfig(t, `
app:
  env: development
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadInvalidEnvironment(t *testing.T) {
	path := writeConfig(t, `
app:
  env: staging
jwt:
  secret: test-secret
`)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid environment")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	path := writeConfig(t, `
app:
  env: development
jwt:
  secret: from-file
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
