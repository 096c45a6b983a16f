package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Email  EmailConfig
	Tax    TaxConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings for the distributed ledger lock.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
	LockRetryGap time.Duration `mapstructure:"lock_retry_gap"`
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for report archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// TaxConfig holds statutory parameters that change by notification, not by
// code release.
type TaxConfig struct {
	InterestRatePercent string `mapstructure:"interest_rate_percent"`
	ReversalDays        int    `mapstructure:"reversal_days"`
}

// Load reads configuration from environment variables with the RCMBOOKS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RCMBOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "rcmbooks")
	v.SetDefault("db.password", "rcmbooks_secret")
	v.SetDefault("db.name", "rcmbooks_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "30s")
	v.SetDefault("redis.lock_retry_gap", "100ms")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "rcmbooks")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "rcmbooks-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@rcmbooks.in")
	v.SetDefault("email.from_name", "RCM Books")

	// Tax defaults (Section 50 interest, second-proviso reversal window)
	v.SetDefault("tax.interest_rate_percent", "18")
	v.SetDefault("tax.reversal_days", 180)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "RCMBOOKS_SERVER_PORT",
		"server.read_timeout":       "RCMBOOKS_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "RCMBOOKS_SERVER_WRITE_TIMEOUT",
		"server.environment":        "RCMBOOKS_SERVER_ENVIRONMENT",
		"db.host":                   "RCMBOOKS_DB_HOST",
		"db.port":                   "RCMBOOKS_DB_PORT",
		"db.user":                   "RCMBOOKS_DB_USER",
		"db.password":               "RCMBOOKS_DB_PASSWORD",
		"db.name":                   "RCMBOOKS_DB_NAME",
		"db.sslmode":                "RCMBOOKS_DB_SSLMODE",
		"db.max_open":               "RCMBOOKS_DB_MAX_OPEN",
		"db.max_idle":               "RCMBOOKS_DB_MAX_IDLE",
		"redis.addr":                "RCMBOOKS_REDIS_ADDR",
		"redis.password":            "RCMBOOKS_REDIS_PASSWORD",
		"redis.db":                  "RCMBOOKS_REDIS_DB",
		"redis.lock_ttl":            "RCMBOOKS_REDIS_LOCK_TTL",
		"redis.lock_retry_gap":      "RCMBOOKS_REDIS_LOCK_RETRY_GAP",
		"jwt.secret":                "RCMBOOKS_JWT_SECRET",
		"jwt.access_expiry":         "RCMBOOKS_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":        "RCMBOOKS_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                "RCMBOOKS_JWT_ISSUER",
		"s3.region":                 "RCMBOOKS_S3_REGION",
		"s3.bucket":                 "RCMBOOKS_S3_BUCKET",
		"s3.endpoint":               "RCMBOOKS_S3_ENDPOINT",
		"s3.access_key":             "RCMBOOKS_S3_ACCESS_KEY",
		"s3.secret_key":             "RCMBOOKS_S3_SECRET_KEY",
		"s3.presign_expiry":         "RCMBOOKS_S3_PRESIGN_EXPIRY",
		"log.level":                 "RCMBOOKS_LOG_LEVEL",
		"log.format":                "RCMBOOKS_LOG_FORMAT",
		"cors.allowed_origins":      "RCMBOOKS_CORS_ALLOWED_ORIGINS",
		"email.provider":            "RCMBOOKS_EMAIL_PROVIDER",
		"email.region":              "RCMBOOKS_EMAIL_REGION",
		"email.from_address":        "RCMBOOKS_EMAIL_FROM_ADDRESS",
		"email.from_name":           "RCMBOOKS_EMAIL_FROM_NAME",
		"tax.interest_rate_percent": "RCMBOOKS_TAX_INTEREST_RATE_PERCENT",
		"tax.reversal_days":         "RCMBOOKS_TAX_REVERSAL_DAYS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RCMBOOKS_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RCMBOOKS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Addr:         v.GetString("redis.addr"),
		Password:     v.GetString("redis.password"),
		DB:           v.GetInt("redis.db"),
		LockTTL:      v.GetDuration("redis.lock_ttl"),
		LockRetryGap: v.GetDuration("redis.lock_retry_gap"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: strings.Split(v.GetString("cors.allowed_origins"), ","),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Tax = TaxConfig{
		InterestRatePercent: v.GetString("tax.interest_rate_percent"),
		ReversalDays:        v.GetInt("tax.reversal_days"),
	}
	return cfg, nil
}
