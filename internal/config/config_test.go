package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYML = `
api:
  environment: test
  port: "9090"
  jwt_signing_key: secret
  token_ttl: 30m
  allowed_cors_domains:
    - http://localhost:3000
database:
  driver: sqlite
  sqlite_path: test.db
postgres:
  host: db
  port: "5432"
  user: u
  password: p
  dbname: events
categories:
  - Meetup
  - Workshop
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, sampleYML))
	require.NoError(t, err)

	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, 30*time.Minute, conf.API.TokenTTL)
	assert.Equal(t, 10*time.Second, conf.API.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, DriverSQLite, conf.Database.Driver)
	assert.Equal(t, "debug", conf.Gin.Mode)
	assert.True(t, conf.Filter.Enabled)
	assert.False(t, conf.Notify.Enabled)
	assert.Equal(t, []string{"Meetup", "Workshop"}, conf.Categories)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EVENTAPI_API_PORT", "7070")
	t.Setenv("EVENTAPI_API_JWT_SIGNING_KEY", "from-env")

	conf, err := Load(writeConfig(t, sampleYML))
	require.NoError(t, err)

	assert.Equal(t, "7070", conf.API.Port)
	assert.Equal(t, "from-env", conf.API.JWTSigningKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestAppConfig_Validate(t *testing.T) {
	valid := func() *AppConfig {
		return &AppConfig{
			API:      &APIConfig{JWTSigningKey: "k", TokenTTL: time.Hour},
			Database: &DatabaseConfig{Driver: DriverPostgres},
			Notify:   &NotifyConfig{},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(c *AppConfig) {}},
		{name: "missing key", mutate: func(c *AppConfig) { c.API.JWTSigningKey = "" }, wantErr: errMissingSigningKey},
		{name: "zero ttl", mutate: func(c *AppConfig) { c.API.TokenTTL = 0 }, wantErr: errInvalidTokenTTL},
		{name: "unknown driver", mutate: func(c *AppConfig) { c.Database.Driver = "mysql" }, wantErr: errUnknownDriver},
		{name: "notify without url", mutate: func(c *AppConfig) { c.Notify.Enabled = true }, wantErr: errMissingAMQPURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := &PostgresConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d"}

	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable", c.DSN())
}
