package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// StorageConfig selects the attachment payload backend.
// "mongo" keeps payloads inline in the document store; "s3" moves them to an
// S3-compatible bucket without changing the Submission contract.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration.
// Secret is mandatory: there is deliberately no default, and LoadConfig fails
// when it is missing so the server never starts with a guessable key.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// ErrMissingJWTSecret is returned when no jwt.secret is configured.
var ErrMissingJWTSecret = errors.New("jwt.secret is required configuration (set JWT_SECRET)")

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables override the file, e.g. server.address -> SERVER_ADDRESS
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "classroom_app")
	viper.SetDefault("storage.backend", "mongo")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "168h") // bearer credentials live 7 days

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file is fine; env vars and defaults may be enough.
		err = nil
	} else if err != nil {
		return
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if config.JWT.Secret == "" {
		return config, ErrMissingJWTSecret
	}
	if config.JWT.Expiration <= 0 {
		config.JWT.Expiration = 168 * time.Hour
	}

	return config, nil
}
