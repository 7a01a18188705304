package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full deployment surface. Nothing in the engine reads the
// environment directly; everything flows through this struct.
type Config struct {
	Addr       string        `mapstructure:"addr"`
	AuthKey    string        `mapstructure:"auth_key"`
	ImageHost  string        `mapstructure:"image_host"`
	FileHost   string        `mapstructure:"file_host"`
	UploadHost string        `mapstructure:"upload_host"`
	Storage    StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	// Backend selects the bucket implementation: "s3" for R2 (or any
	// S3-compatible endpoint), "fs" for the local afero+gorm backend.
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
	// DSN is the mysql DSN for the fs backend's metadata table; when empty a
	// sqlite file inside DataDir is used instead.
	DSN string   `mapstructure:"dsn"`
	S3  S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// Load reads r2worker.yaml from the working directory or ~/.config/r2worker,
// with R2W_* environment variables taking precedence.
func Load() (*Config, error) {
	viper.SetConfigName("r2worker")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/r2worker")

	viper.SetEnvPrefix("R2W")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("addr", ":8080")
	viper.SetDefault("storage.backend", "fs")
	viper.SetDefault("storage.data_dir", "data")
	viper.SetDefault("storage.s3.region", "auto")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// no file is fine, env can carry everything
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.AuthKey == "" {
		return nil, errors.New("auth_key must be configured")
	}
	if cfg.ImageHost == "" || cfg.FileHost == "" {
		return nil, errors.New("image_host and file_host must be configured")
	}
	return &cfg, nil
}
