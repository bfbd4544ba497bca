package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8431", s.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:3000"}, s.AllowedOrigins)
	assert.Equal(t, 30, s.AccessTokenMinutes)
	assert.Equal(t, 12, s.BcryptCost)
	assert.Equal(t, 30*time.Minute, s.AccessTokenTTL())
	assert.False(t, s.GithubEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("ALLOWED_ORIGINS", "https://careercompass.app,https://staging.careercompass.app")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("JWT_SECRET", "s3cr3t")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", s.HTTPAddr)
	assert.Equal(t, []string{"https://careercompass.app", "https://staging.careercompass.app"}, s.AllowedOrigins)
	assert.Equal(t, 45*time.Minute, s.AccessTokenTTL())
	assert.Equal(t, "s3cr3t", s.JWTSecret)
}

func TestGithubEnabled(t *testing.T) {
	t.Setenv("GITHUB_CLIENT_ID", "iv1.abc")
	t.Setenv("GITHUB_CLIENT_SECRET", "shh")

	s, err := Load()
	require.NoError(t, err)
	assert.True(t, s.GithubEnabled())
}
