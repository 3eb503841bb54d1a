package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends accepted by CAMPSHARE_STORE.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// SMS providers accepted by CAMPSHARE_SMS_PROVIDER.
const (
	SMSProviderAuto   = "auto"
	SMSProviderTwilio = "twilio"
	SMSProviderRelay  = "relay"
	SMSProviderNone   = "none"
)

// Password modes accepted by CAMPSHARE_PASSWORD_MODE.
const (
	PasswordModePlaintext = "plaintext"
	PasswordModeArgon2id  = "argon2id"
)

// Config captures environment driven configuration values for the campshare service.
type Config struct {
	HTTPPort int
	LogLevel string

	Store       string
	SQLiteDSN   string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	RedisPrefix string

	SMSProvider      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	SMSRelayURL      string
	SMSCountryPrefix string
	// SMSRatePerMinute caps outbound messages; zero disables throttling.
	SMSRatePerMinute int

	PasswordMode     string
	VerificationCode string
}

// TwilioConfigured reports whether all Twilio credentials are present.
func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

// Load parses configuration values from the current process environment.
//
// Variables from a .env file in the working directory are applied first without
// overriding values already present in the environment. Explicit envFiles must exist.
// Missing and invalid variables are collected and reported together.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("failed to read env file: %w", err)
	}

	cfg := Config{
		HTTPPort:         8080,
		LogLevel:         "info",
		Store:            StoreSQLite,
		SQLiteDSN:        "file:campshare.db",
		RedisAddr:        "localhost:6379",
		RedisPrefix:      "campshare:",
		SMSProvider:      SMSProviderAuto,
		SMSCountryPrefix: "+1",
		SMSRatePerMinute: 30,
		PasswordMode:     PasswordModePlaintext,
		VerificationCode: "123456",
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if portValue := env("CAMPSHARE_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "CAMPSHARE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if level := env("CAMPSHARE_LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	if store := strings.ToLower(env("CAMPSHARE_STORE")); store != "" {
		switch store {
		case StoreMemory, StoreSQLite, StoreRedis:
			cfg.Store = store
		default:
			invalid = append(invalid, "CAMPSHARE_STORE")
		}
	}

	if dsn := env("CAMPSHARE_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if addr := env("CAMPSHARE_REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}
	cfg.RedisPass = env("CAMPSHARE_REDIS_PASSWORD")
	if dbValue := env("CAMPSHARE_REDIS_DB"); dbValue != "" {
		db, err := strconv.Atoi(dbValue)
		if err != nil || db < 0 {
			invalid = append(invalid, "CAMPSHARE_REDIS_DB")
		} else {
			cfg.RedisDB = db
		}
	}
	if prefix, ok := os.LookupEnv("CAMPSHARE_REDIS_PREFIX"); ok {
		cfg.RedisPrefix = strings.TrimSpace(prefix)
	}

	cfg.TwilioAccountSID = env("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = env("TWILIO_AUTH_TOKEN")
	cfg.TwilioFromNumber = env("TWILIO_PHONE_NUMBER")

	if relay := env("CAMPSHARE_SMS_RELAY_URL"); relay != "" {
		parsed, err := url.Parse(relay)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			invalid = append(invalid, "CAMPSHARE_SMS_RELAY_URL")
		} else {
			cfg.SMSRelayURL = relay
		}
	}

	if prefix := env("CAMPSHARE_SMS_COUNTRY_PREFIX"); prefix != "" {
		if !strings.HasPrefix(prefix, "+") || !isDigits(prefix[1:]) {
			invalid = append(invalid, "CAMPSHARE_SMS_COUNTRY_PREFIX")
		} else {
			cfg.SMSCountryPrefix = prefix
		}
	}

	if rateValue := env("CAMPSHARE_SMS_RATE_PER_MINUTE"); rateValue != "" {
		perMinute, err := strconv.Atoi(rateValue)
		if err != nil || perMinute < 0 {
			invalid = append(invalid, "CAMPSHARE_SMS_RATE_PER_MINUTE")
		} else {
			cfg.SMSRatePerMinute = perMinute
		}
	}

	if provider := strings.ToLower(env("CAMPSHARE_SMS_PROVIDER")); provider != "" {
		switch provider {
		case SMSProviderAuto, SMSProviderTwilio, SMSProviderRelay, SMSProviderNone:
			cfg.SMSProvider = provider
		default:
			invalid = append(invalid, "CAMPSHARE_SMS_PROVIDER")
		}
	}

	switch cfg.SMSProvider {
	case SMSProviderTwilio:
		if cfg.TwilioAccountSID == "" {
			missing = append(missing, "TWILIO_ACCOUNT_SID")
		}
		if cfg.TwilioAuthToken == "" {
			missing = append(missing, "TWILIO_AUTH_TOKEN")
		}
		if cfg.TwilioFromNumber == "" {
			missing = append(missing, "TWILIO_PHONE_NUMBER")
		}
	case SMSProviderRelay:
		if cfg.SMSRelayURL == "" && !contains(invalid, "CAMPSHARE_SMS_RELAY_URL") {
			missing = append(missing, "CAMPSHARE_SMS_RELAY_URL")
		}
	}

	if mode := strings.ToLower(env("CAMPSHARE_PASSWORD_MODE")); mode != "" {
		switch mode {
		case PasswordModePlaintext, PasswordModeArgon2id:
			cfg.PasswordMode = mode
		default:
			invalid = append(invalid, "CAMPSHARE_PASSWORD_MODE")
		}
	}

	if code := env("CAMPSHARE_VERIFICATION_CODE"); code != "" {
		if len(code) != 6 || !isDigits(code) {
			invalid = append(invalid, "CAMPSHARE_VERIFICATION_CODE")
		} else {
			cfg.VerificationCode = code
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
