// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	configPath        = pflag.StringP("config", "c", ".", "Directory containing config.toml")
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "local"}
	validDrivers      = []string{"sqlite", "postgres"}
	validHashers      = []string{"sha256", "argon2id"}
)

// SetDefaults registers the environment bindings and default values. It is
// safe to call more than once.
func SetDefaults() {
	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")
	v.BindEnv("app.release", "APP_RELEASE")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")
	v.BindEnv("host.ssl_enabled", "HOST_SSL_ENABLED")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.path", "DB_PATH")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.seed", "DB_SEED")

	v.BindEnv("auth.email_domain", "AUTH_EMAIL_DOMAIN")
	v.BindEnv("auth.hasher", "AUTH_HASHER")

	v.BindEnv("session.lifetime", "SESSION_LIFETIME")
	v.BindEnv("session.cookie_name", "SESSION_COOKIE_NAME")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.uploads_dir", "STORAGE_UPLOADS_DIR")
	v.BindEnv("storage.public_prefix", "STORAGE_PUBLIC_PREFIX")

	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.public_url", "S3_PUBLIC_URL")

	v.BindEnv("upload.max_images", "UPLOAD_MAX_IMAGES")
	v.BindEnv("upload.max_image_size", "UPLOAD_MAX_IMAGE_SIZE")
	v.BindEnv("upload.max_total_size", "UPLOAD_MAX_TOTAL_SIZE")
	v.BindEnv("upload.max_request_size", "UPLOAD_MAX_REQUEST_SIZE")

	v.BindEnv("cache.insights_ttl", "CACHE_INSIGHTS_TTL")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.release", true)

	v.SetDefault("host.port", 5000)
	v.SetDefault("host.cors", []string{})
	v.SetDefault("host.ssl_enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "marketplace.db")
	v.SetDefault("db.seed", true)

	v.SetDefault("auth.email_domain", "@korea.ac.kr")
	v.SetDefault("auth.hasher", "sha256")

	v.SetDefault("session.lifetime", "24h")
	v.SetDefault("session.cookie_name", "session")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.uploads_dir", "static/uploads")
	v.SetDefault("storage.public_prefix", "/static/uploads")

	// Sizes are in megabytes until Validate converts them
	v.SetDefault("upload.max_images", 5)
	v.SetDefault("upload.max_image_size", 10)
	v.SetDefault("upload.max_total_size", 40)
	v.SetDefault("upload.max_request_size", 50)

	v.SetDefault("cache.insights_ttl", 0)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		fmt.Println("[WARNING]: config.toml not found, running with defaults and environment variables")
	}

	return Validate()
}

// Validate checks the loaded values and stores the upload sizes in bytes
// under upload.max_*_bytes. Calling it again gives the same result.
func Validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	v.Set("host.cors", splitList(v.GetStringSlice("host.cors")))

	switch v.GetString("db.driver") {
	case "postgres":
		if v.GetString("db.dsn") == "" {
			return errors.New("db.dsn is required for the postgres driver")
		}
	case "sqlite":
		if v.GetString("db.path") == "" {
			return errors.New("db.path can't be empty")
		}
	}

	if !slices.Contains(validDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if !strings.HasPrefix(v.GetString("auth.email_domain"), "@") {
		return errors.New("auth.email_domain must start with @")
	}

	if !slices.Contains(validHashers, v.GetString("auth.hasher")) {
		return errors.New("invalid password hasher provided")
	}

	if v.GetDuration("session.lifetime") <= 0 {
		return errors.New("session.lifetime must be bigger than 0")
	}

	switch v.GetString("storage.type") {
	case "s3":
		{
			if v.GetString("s3.bucket") == "" {
				return errors.New("bucket can't be empty")
			}
			if v.GetString("s3.access_key_id") == "" {
				return errors.New("access key id can't be empty")
			}
			if v.GetString("s3.secret_access_key") == "" {
				return errors.New("secret access key can't be empty")
			}
			if v.GetString("s3.public_url") == "" {
				return errors.New("s3.public_url can't be empty")
			}
			if v.GetString("s3.region") == "" {
				v.Set("s3.region", "auto")
			}
		}
	case "local":
		{
			if v.GetString("storage.uploads_dir") == "" {
				return errors.New("storage.uploads_dir can't be empty")
			}
			if !strings.HasPrefix(v.GetString("storage.public_prefix"), "/") {
				return errors.New("storage.public_prefix must start with /")
			}
		}
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	if v.GetInt("upload.max_images") < 0 {
		return errors.New("upload.max_images can't be negative")
	}

	for _, key := range []string{"upload.max_image_size", "upload.max_total_size", "upload.max_request_size"} {
		if v.GetInt64(key) <= 0 {
			return fmt.Errorf("%s must be bigger than 0", key)
		}
	}

	if v.GetInt64("upload.max_image_size") > v.GetInt64("upload.max_total_size") {
		return errors.New("upload.max_image_size can't be bigger than upload.max_total_size")
	}

	if v.GetInt("cache.insights_ttl") < 0 {
		return errors.New("cache.insights_ttl can't be negative")
	}

	// Derived keys, so the configured megabytes are never rewritten
	v.Set("upload.max_image_bytes", v.GetInt64("upload.max_image_size")<<20)
	v.Set("upload.max_total_bytes", v.GetInt64("upload.max_total_size")<<20)
	v.Set("upload.max_request_bytes", v.GetInt64("upload.max_request_size")<<20)
	return nil
}

// splitList accepts both TOML arrays and comma separated env values
func splitList(in []string) []string {
	out := []string{}

	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
