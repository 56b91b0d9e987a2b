package stub

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/openrestauth/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"STUB_DIRECTORY_FILE", "STUB_TOKEN_SECRET", "STUB_TOKEN_TTL", "STUB_ISSUER",
		"STUB_PASSWORD_PEPPER", "STUB_PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_GRACE_PERIOD",
		"RATELIMIT_LOGIN_REQUESTS", "RATELIMIT_LOGIN_WINDOW_SEC", "RATELIMIT_LOGIN_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "directory.toml", cfg.DirectoryFile)
	require.Empty(t, cfg.TokenSecret)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, "openrest-auth-stub", cfg.Issuer)
	require.Equal(t, httpx.DefaultLoginLimit, cfg.LoginLimit)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STUB_DIRECTORY_FILE", "/etc/stub/users.toml")
	t.Setenv("STUB_TOKEN_TTL", "90s")
	t.Setenv("STUB_PORT", "9090")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "2") // bare integers are minutes
	t.Setenv("RATELIMIT_LOGIN_REQUESTS", "1000")

	cfg := LoadConfig()
	require.Equal(t, "/etc/stub/users.toml", cfg.DirectoryFile)
	require.Equal(t, 90*time.Second, cfg.TokenTTL)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 2*time.Minute, cfg.ShutdownGracePeriod)
	require.Equal(t, 1000, cfg.LoginLimit.RequestsPerWindow)
}

func TestLoadConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("STUB_PORT", "eighty")
	t.Setenv("STUB_TOKEN_TTL", "soon")

	cfg := LoadConfig()
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Hour, cfg.TokenTTL)
}
