package config

import (
	"os"
	"strconv"
	"time"
)

// Server configuration
type ServerConfig struct {
	Port string
	Host string
}

// MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// JWT configuration. RefreshSecret falls back to Secret when unset so a
// single-secret deployment keeps working.
type JWTConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// SMTP configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Config holds all application configuration
type Config struct {
	Env         string
	Server      ServerConfig
	Mongo       MongoConfig
	JWT         JWTConfig
	SMTP        SMTPConfig
	FrontendURL string
}

// Default configuration values
const (
	DefaultServerPort       = "8080"
	DefaultServerHost       = ""
	DefaultMongoURI         = "mongodb://localhost:27017/campushub"
	DefaultMongoDB          = "campushub"
	DefaultJWTSecret        = "dev-secret-change-me"
	DefaultAccessTTLMinutes = 15
	DefaultRefreshTTLDays   = 7
	DefaultJWTIssuer        = "campushub"
	DefaultSMTPHost         = "localhost"
	DefaultSMTPPort         = 587
	DefaultEmailFrom        = "no-reply@campushub.local"
	DefaultFrontendURL      = "http://localhost:3000"
	DefaultEnv              = "development"
)

// New returns a new Config with values from the environment
func New() *Config {
	secret := getEnv("JWT_SECRET", DefaultJWTSecret)
	return &Config{
		Env: getEnv("APP_ENV", DefaultEnv),
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", DefaultServerPort),
			Host: getEnv("SERVER_HOST", DefaultServerHost),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", DefaultMongoURI),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		JWT: JWTConfig{
			Secret:        secret,
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", secret),
			AccessTTL:     time.Duration(getEnvInt("JWT_ACCESS_TTL_MINUTES", DefaultAccessTTLMinutes)) * time.Minute,
			RefreshTTL:    time.Duration(getEnvInt("JWT_REFRESH_TTL_DAYS", DefaultRefreshTTLDays)) * 24 * time.Hour,
			Issuer:        getEnv("JWT_ISSUER", DefaultJWTIssuer),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", DefaultSMTPHost),
			Port:     getEnvInt("SMTP_PORT", DefaultSMTPPort),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", DefaultEmailFrom),
		},
		FrontendURL: getEnv("FRONTEND_URL", DefaultFrontendURL),
	}
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// IsProduction reports whether the app runs in production mode.
// Controls cookie Secure flags and logger verbosity.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
