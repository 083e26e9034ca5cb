// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for SMTP email delivery.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// StorageConfig provides settings for MinIO S3-compatible storage.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketQRCodes() string
	GetMinioBucketEvidence() string
	GetMinioBucketSeminarFiles() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for the asynq background job layer.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
}

// PolicyConfig provides the seminar scheduling and attendance policy knobs.
type PolicyConfig interface {
	GetPolicy() Policy
}

// Policy holds attendance-window and geofence tuning. Values come from
// policy.yaml when present, with env/defaults as fallback.
type Policy struct {
	// GraceBeforeMinutes is how early a scan is accepted before start time.
	GraceBeforeMinutes int `yaml:"grace_before_minutes"`
	// GraceAfterMinutes extends the scan window past the scheduled end.
	GraceAfterMinutes int `yaml:"grace_after_minutes"`
	// LateAfterMinutes marks a scan "late" this many minutes after start.
	LateAfterMinutes int `yaml:"late_after_minutes"`
	// GeofenceRadiusMeters is the maximum scan distance from the venue.
	GeofenceRadiusMeters float64 `yaml:"geofence_radius_meters"`
	// DefaultDurationMinutes is used when a schedule omits a duration.
	DefaultDurationMinutes int `yaml:"default_duration_minutes"`
	// ReminderLeadHours is how long before start the reminder job fires.
	ReminderLeadHours int `yaml:"reminder_lead_hours"`
}

// DefaultPolicy returns the built-in policy values.
func DefaultPolicy() Policy {
	return Policy{
		GraceBeforeMinutes:     15,
		GraceAfterMinutes:      15,
		LateAfterMinutes:       10,
		GeofenceRadiusMeters:   50,
		DefaultDurationMinutes: 90,
		ReminderLeadHours:      24,
	}
}

// =============================================================================
// Config implementation
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string

	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinIOMaxFileSize    int64
	BucketQRCodes       string
	BucketEvidence      string
	BucketSeminarFiles  string

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	AppBaseURL string

	Policy Policy
}

// Load reads configuration from .env (when present), the environment, and
// the optional policy YAML file pointed to by POLICY_FILE.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret: os.Getenv("JWT_ACCESS_SECRET"),

		CORSAllowAll:   getEnvBool("CORS_ALLOW_ALL", false),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		CORSAllowCreds: getEnvBool("CORS_ALLOW_CREDENTIALS", true),

		EmailEnabled:     getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Seminar Portal"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", "no-reply@seminar.local"),

		MinIOEndpoint:      os.Getenv("MINIO_ENDPOINT"),
		MinIOAccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		MinIOSecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		MinIOUseSSL:        getEnvBool("MINIO_USE_SSL", false),
		MinIOMaxFileSize:   getEnvInt64("MINIO_MAX_FILE_SIZE", 10*1024*1024),
		BucketQRCodes:      getEnv("MINIO_BUCKET_QR_CODES", "seminar-qr-codes"),
		BucketEvidence:     getEnv("MINIO_BUCKET_EVIDENCE", "attendance-evidence"),
		BucketSeminarFiles: getEnv("MINIO_BUCKET_SEMINAR_FILES", "seminar-files"),

		RedisURL:         os.Getenv("REDIS_URL"),
		RedisTLSInsecure: getEnvBool("REDIS_TLS_INSECURE", false),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: getEnvInt("ASYNQ_CONCURRENCY", 10),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:5173"),

		Policy: DefaultPolicy(),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	if policyFile := os.Getenv("POLICY_FILE"); policyFile != "" {
		if err := loadPolicyFile(policyFile, &cfg.Policy); err != nil {
			return nil, fmt.Errorf("load policy file: %w", err)
		}
	}

	return cfg, nil
}

func loadPolicyFile(path string, policy *Policy) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, policy)
}

// Interface implementations.

func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

func (c *Config) GetHTTPAddr() string       { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool     { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string  { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool   { return c.CORSAllowCreds }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

func (c *Config) GetMinIOEndpoint() string          { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string         { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string         { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool              { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64        { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketQRCodes() string     { return c.BucketQRCodes }
func (c *Config) GetMinioBucketEvidence() string    { return c.BucketEvidence }
func (c *Config) GetMinioBucketSeminarFiles() string { return c.BucketSeminarFiles }
func (c *Config) IsMinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

func (c *Config) GetRedisURL() string      { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

func (c *Config) GetAppBaseURL() string { return c.AppBaseURL }

func (c *Config) GetPolicy() Policy { return c.Policy }

// GraceBefore returns the policy grace window before start as a duration.
func (p Policy) GraceBefore() time.Duration {
	return time.Duration(p.GraceBeforeMinutes) * time.Minute
}

// GraceAfter returns the policy grace window after end as a duration.
func (p Policy) GraceAfter() time.Duration {
	return time.Duration(p.GraceAfterMinutes) * time.Minute
}

// LateAfter returns the late threshold after start as a duration.
func (p Policy) LateAfter() time.Duration {
	return time.Duration(p.LateAfterMinutes) * time.Minute
}

// ReminderLead returns how long before start the seminar reminder fires.
func (p Policy) ReminderLead() time.Duration {
	return time.Duration(p.ReminderLeadHours) * time.Hour
}

// Env helpers.

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
