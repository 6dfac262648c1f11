package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k3J9xQ2mVb7Lp0Zs4Tn8Wc1Ry6Hd5Fg-_aE"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "drive_session", cfg.Session.CookieName)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxUploadSize)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "drive-blobs")
	t.Setenv("S3_REGION", "eu-west-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "drive-blobs", cfg.Storage.S3.Bucket)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET must be set")
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "3000"},
		Database: DatabaseConfig{Password: "secret"},
		Session:  SessionConfig{Secret: testSecret, TTL: time.Hour},
		Storage:  StorageConfig{Driver: StorageDriverLocal, UploadDir: "uploads", MaxUploadSize: 1},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no port", func(c *Config) { c.Server.Port = "" }, "PORT must be set"},
		{"no db password", func(c *Config) { c.Database.Password = "" }, "DB_PASSWORD must be set"},
		{"short secret", func(c *Config) { c.Session.Secret = "short" }, "at least 32 characters"},
		{"low entropy secret", func(c *Config) { c.Session.Secret = strings.Repeat("ab", 20) }, "insufficient entropy"},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }, "SESSION_TTL"},
		{"bad driver", func(c *Config) { c.Storage.Driver = "ftp" }, "STORAGE_DRIVER"},
		{"s3 without bucket", func(c *Config) { c.Storage.Driver = StorageDriverS3 }, "S3_BUCKET"},
		{"zero upload size", func(c *Config) { c.Storage.MaxUploadSize = 0 }, "MAX_UPLOAD_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
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

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "drive", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=drive sslmode=disable", c.DSN())
}
