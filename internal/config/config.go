package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Functions FunctionsConfig `mapstructure:"functions"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// FunctionsConfig points at the serverless collaborators: the PDF generator
// and the email dispatcher. Both are consumed as opaque HTTP endpoints.
type FunctionsConfig struct {
	PDFURL   string        `mapstructure:"pdf_url"`
	EmailURL string        `mapstructure:"email_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variables override the file: server.address -> SERVER_ADDRESS.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	viper.SetDefault("database.dsn", "host=localhost user=trainmate dbname=trainmate port=5432 sslmode=disable")
	viper.SetDefault("s3.use_ssl", true)
	// Viper only resolves env overrides for keys it knows about, so values
	// that usually arrive via environment still need an empty default.
	for _, key := range []string{
		"s3.endpoint", "s3.region", "s3.access_key_id", "s3.secret_access_key",
		"s3.bucket_name", "jwt.secret", "functions.pdf_url", "functions.email_url",
	} {
		viper.SetDefault(key, "")
	}
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("functions.timeout", "30s")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No config file is fine; env vars and defaults carry the day.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
