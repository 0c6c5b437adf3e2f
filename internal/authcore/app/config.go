package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for both token flavours (default: authcore)

	AccessTokenSecret  string        // Required: HMAC secret for access tokens
	RefreshTokenSecret string        // Required: HMAC secret for refresh tokens
	AccessTokenTTL     time.Duration // Access token lifetime (default: 15m)
	RefreshTokenTTL    time.Duration // Refresh token lifetime (default: 7 days)
	OTPTTL             time.Duration // Emailed verification code lifetime (default: 5m)

	DatabaseFile string // Path to SQLite database file (default: ./authcore.db)

	SMTPHost     string // SMTP relay host (empty disables real email, OTPs are logged)
	SMTPPort     int    // SMTP relay port (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string // From address for OTP emails

	GoogleClientID     string // Optional: empty disables Google sign-in
	GoogleClientSecret string
	GoogleRedirectURI  string // OAuth2 redirect back to this service
	ClientRedirectURI  string // Frontend URL the callback forwards the browser to

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer: getEnvOrDefault("AUTH_ISSUER", "authcore"),

		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessTokenTTL:     getEnvDurationOrDefault("ACCESS_TOKEN_EXPIRES_IN", 15*time.Minute),
		RefreshTokenTTL:    getEnvDurationOrDefault("REFRESH_TOKEN_EXPIRES_IN", 7*24*time.Hour),
		OTPTTL:             getEnvDurationOrDefault("OTP_EXPIRES_IN", 5*time.Minute),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "authcore.db"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  os.Getenv("GOOGLE_REDIRECT_URI"),
		ClientRedirectURI:  getEnvOrDefault("CLIENT_REDIRECT_URI", "http://localhost:3000/oauth-google-callback"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate rejects configurations the service cannot start with. The two
// token secrets must be set and distinct so a leaked access secret cannot
// be replayed against the refresh path.
func (c Config) Validate() error {
	if c.AccessTokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}
	if c.RefreshTokenSecret == "" {
		return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accepts Go duration strings ("15m", "1h") or plain integer minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
