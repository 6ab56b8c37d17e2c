package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config holds application configuration
type Config struct {
	// Database
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBSSLMode  string

	LogLevel string

	// HTTP API
	Port      string
	JWTSecret string

	// Mail
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	ReportSchedule string
}

// LoadEnvFile loads a .env file when present; a missing file is not an error
func LoadEnvFile(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		DBName:     os.Getenv("DB_NAME"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		Port:      getEnv("PORT", "8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SenderEmail:  os.Getenv("SENDER_EMAIL"),

		ReportSchedule: os.Getenv("REPORT_SCHEDULE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every option and returns all problems at once
func (c *Config) Validate() error {
	var problems []string

	required := []struct{ key, value string }{
		{"DB_NAME", c.DBName},
		{"DB_USER", c.DBUser},
		{"DB_PASSWORD", c.DBPassword},
		{"DB_HOST", c.DBHost},
	}
	for _, r := range required {
		if r.value == "" {
			problems = append(problems, fmt.Sprintf("%s is required", r.key))
		}
	}

	if err := validatePort(c.DBPort); err != nil {
		problems = append(problems, fmt.Sprintf("DB_PORT: %v", err))
	}
	if err := validatePort(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("PORT: %v", err))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL: %v", err))
	}

	if c.SMTPHost != "" {
		if err := validatePort(c.SMTPPort); err != nil {
			problems = append(problems, fmt.Sprintf("SMTP_PORT: %v", err))
		}
		if c.SenderEmail == "" {
			problems = append(problems, "SENDER_EMAIL is required when SMTP_HOST is set")
		}
	}

	if c.ReportSchedule != "" {
		if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("REPORT_SCHEDULE: %v", err))
		}
		if !c.MailEnabled() {
			problems = append(problems, "REPORT_SCHEDULE requires SMTP_HOST and SENDER_EMAIL")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// ValidateAPI checks the options only the HTTP API needs
func (c *Config) ValidateAPI() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// MailEnabled reports whether outgoing mail is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

// DSN builds the lib/pq connection string
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Level returns the configured log level, defaulting to info
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port '%s': must be a number", port)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", n)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}
