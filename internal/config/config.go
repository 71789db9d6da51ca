package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported storage backends.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig picks the backend. URI and Name are used by mongo (which must run as a
// replica set for transactions), Path by sqlite.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	Path   string `mapstructure:"path"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"` // Empty disables video storage
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// CORSConfig lists allowed origins. An empty list allows every origin.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type CatalogConfig struct {
	SeedOnStart bool `mapstructure:"seed_on_start"`
}

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("config: jwt.secret must be set")

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Handling ---
	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// --- Defaults ---
	// Every key gets a default so AutomaticEnv can resolve it during Unmarshal.
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.uri", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("database.name", "strength_planner")
	v.SetDefault("database.path", "strength-planner.db")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("catalog.seed_on_start", true)

	// --- Read Config File ---
	// A missing file is fine, env vars and defaults still apply.
	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	config.Database.Driver = strings.ToLower(config.Database.Driver)
	switch config.Database.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return config, errors.New("config: database.driver must be sqlite or mongo")
	}
	if config.JWT.Secret == "" {
		return config, ErrMissingJWTSecret
	}
	return config, nil
}
