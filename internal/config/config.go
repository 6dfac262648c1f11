package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

const (
	minSessionSecretLength   = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2

	errPortRequiredFmt           = "PORT must be set"
	errDBPasswordRequiredFmt     = "DB_PASSWORD must be set"
	errSessionSecretRequiredFmt  = "SESSION_SECRET must be set"
	errSessionSecretMinLengthFmt = "SESSION_SECRET must be at least %d characters"
	errSessionSecretEntropyFmt   = "SESSION_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errSessionTTLFmt             = "SESSION_TTL must be positive"
	errStorageDriverFmt          = "STORAGE_DRIVER must be %q or %q, got %q"
	errUploadDirRequiredFmt      = "UPLOAD_DIR must be set for the local storage driver"
	errS3BucketRequiredFmt       = "S3_BUCKET must be set for the s3 storage driver"
	errS3RegionRequiredFmt       = "S3_REGION must be set for the s3 storage driver"
	errMaxUploadSizeFmt          = "MAX_UPLOAD_SIZE must be positive"
	errReadEnvFmt                = "failed to read environment: %w"
	errInvalidConfigurationFmt   = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	EnableProfiling bool          `env:"ENABLE_PROFILING" env-default:"false"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" env-default:"localhost"`
	Port        int    `env:"DB_PORT" env-default:"5432"`
	Database    string `env:"DB_NAME" env-default:"drive"`
	User        string `env:"DB_USER" env-default:"drive_app"`
	Password    string `env:"DB_PASSWORD"`
	SSLMode     string `env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns    int    `env:"DB_MAX_CONNS" env-default:"25"`
	MinConns    int    `env:"DB_MIN_CONNS" env-default:"2"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL" env-default:"168h"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" env-default:"drive_session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

// RedisConfig enables session revocation when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type StorageConfig struct {
	Driver        string `env:"STORAGE_DRIVER" env-default:"local"`
	UploadDir     string `env:"UPLOAD_DIR" env-default:"uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" env-default:"10485760"`
	S3            S3Config
}

type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" env-default:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" env-default:"false"`
}

// Load reads the process environment. A .env file, if any, must already be
// loaded into the environment by the caller.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf(errReadEnvFmt, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.Session.Secret == "" {
		return fmt.Errorf(errSessionSecretRequiredFmt)
	}

	if len(c.Session.Secret) < minSessionSecretLength {
		return fmt.Errorf(errSessionSecretMinLengthFmt, minSessionSecretLength)
	}

	if !hasMinimumEntropy(c.Session.Secret) {
		return fmt.Errorf(errSessionSecretEntropyFmt)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf(errSessionTTLFmt)
	}

	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf(errMaxUploadSizeFmt)
	}

	switch c.Storage.Driver {
	case StorageDriverLocal:
		if c.Storage.UploadDir == "" {
			return fmt.Errorf(errUploadDirRequiredFmt)
		}
	case StorageDriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf(errS3BucketRequiredFmt)
		}
		if c.Storage.S3.Region == "" {
			return fmt.Errorf(errS3RegionRequiredFmt)
		}
	default:
		return fmt.Errorf(errStorageDriverFmt, StorageDriverLocal, StorageDriverS3, c.Storage.Driver)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minSessionSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
