package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFile(t *testing.T) {
	p := writeYAML(t, `
app:
  http:
    port: 9090
    basePath: /v2
jwt:
  secret: s3cret
db:
  driver: postgres
  dsn: postgres://u:p@db/users
redis:
  addr: localhost:6379
  userTTLSec: 60
users:
  placeholderWrites: true
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "/v2", c.App.HTTP.BasePath)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, 60, c.Redis.UserTTLSec)
	assert.True(t, c.Users.PlaceholderWrites)
	// 未配置项走默认值
	assert.Equal(t, 10, c.App.HTTP.RequestTimeoutSec)
	assert.Equal(t, 60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, int64(300), c.App.Limits.MaxConcurrent)
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_DB_DRIVER", "mysql")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "mysql", c.DB.Driver)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, "/api/v1", c.App.HTTP.BasePath)
	assert.False(t, c.Users.PlaceholderWrites)
}

func TestLoadRequiresSecret(t *testing.T) {
	p := writeYAML(t, "app:\n  name: x\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "jwt.secret")
}

func TestLoadBadYAML(t *testing.T) {
	p := writeYAML(t, "app: [unclosed\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "read config")
}
