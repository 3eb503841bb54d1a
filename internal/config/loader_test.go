package config

import (
	"os"
	"path/filepath"
	"testing"
)

var managedKeys = []string{
	"CAMPSHARE_HTTP_PORT",
	"CAMPSHARE_LOG_LEVEL",
	"CAMPSHARE_STORE",
	"CAMPSHARE_SQLITE_DSN",
	"CAMPSHARE_REDIS_ADDR",
	"CAMPSHARE_REDIS_PASSWORD",
	"CAMPSHARE_REDIS_DB",
	"CAMPSHARE_REDIS_PREFIX",
	"TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN",
	"TWILIO_PHONE_NUMBER",
	"CAMPSHARE_SMS_RELAY_URL",
	"CAMPSHARE_SMS_COUNTRY_PREFIX",
	"CAMPSHARE_SMS_PROVIDER",
	"CAMPSHARE_SMS_RATE_PER_MINUTE",
	"CAMPSHARE_PASSWORD_MODE",
	"CAMPSHARE_VERIFICATION_CODE",
}

// clearEnv unsets every managed key and restores the previous values when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Store != StoreSQLite || cfg.SQLiteDSN != "file:campshare.db" {
			t.Fatalf("unexpected default store: %q %q", cfg.Store, cfg.SQLiteDSN)
		}
		if cfg.SMSProvider != SMSProviderAuto || cfg.SMSCountryPrefix != "+1" || cfg.SMSRatePerMinute != 30 {
			t.Fatalf("unexpected SMS defaults: %#v", cfg)
		}
		if cfg.PasswordMode != PasswordModePlaintext {
			t.Fatalf("expected plaintext password mode, got %q", cfg.PasswordMode)
		}
		if cfg.VerificationCode != "123456" {
			t.Fatalf("expected default verification code, got %q", cfg.VerificationCode)
		}
		if cfg.RedisPrefix != "campshare:" {
			t.Fatalf("unexpected redis prefix %q", cfg.RedisPrefix)
		}
		if cfg.TwilioConfigured() {
			t.Fatalf("expected Twilio to be unconfigured")
		}
	})

	t.Run("parses store and numeric fields", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CAMPSHARE_HTTP_PORT", "9090")
		t.Setenv("CAMPSHARE_STORE", "Redis")
		t.Setenv("CAMPSHARE_REDIS_ADDR", "cache:6380")
		t.Setenv("CAMPSHARE_REDIS_DB", "3")
		t.Setenv("CAMPSHARE_REDIS_PREFIX", "")
		t.Setenv("CAMPSHARE_PASSWORD_MODE", "argon2id")
		t.Setenv("CAMPSHARE_LOG_LEVEL", "DEBUG")
		t.Setenv("CAMPSHARE_SMS_RATE_PER_MINUTE", "0")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.Store != StoreRedis || cfg.RedisAddr != "cache:6380" || cfg.RedisDB != 3 {
			t.Fatalf("unexpected redis settings: %#v", cfg)
		}
		if cfg.RedisPrefix != "" {
			t.Fatalf("expected explicit empty prefix to be honoured, got %q", cfg.RedisPrefix)
		}
		if cfg.PasswordMode != PasswordModeArgon2id {
			t.Fatalf("expected argon2id mode, got %q", cfg.PasswordMode)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected lowercased log level, got %q", cfg.LogLevel)
		}
		if cfg.SMSRatePerMinute != 0 {
			t.Fatalf("expected throttling disabled, got %d", cfg.SMSRatePerMinute)
		}
	})

	t.Run("errors when twilio provider lacks credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CAMPSHARE_SMS_PROVIDER", "twilio")
		t.Setenv("TWILIO_ACCOUNT_SID", "AC123")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when credentials are missing")
		}
		expected := "required environment variables are not set: TWILIO_AUTH_TOKEN, TWILIO_PHONE_NUMBER"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reports invalid values together", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CAMPSHARE_HTTP_PORT", "eighty")
		t.Setenv("CAMPSHARE_STORE", "postgres")
		t.Setenv("CAMPSHARE_VERIFICATION_CODE", "12ab56")
		t.Setenv("CAMPSHARE_SMS_COUNTRY_PREFIX", "44")
		t.Setenv("CAMPSHARE_SMS_RATE_PER_MINUTE", "-1")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "environment variables have invalid values: CAMPSHARE_HTTP_PORT, CAMPSHARE_STORE, CAMPSHARE_SMS_COUNTRY_PREFIX, CAMPSHARE_SMS_RATE_PER_MINUTE, CAMPSHARE_VERIFICATION_CODE"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("relay provider requires a url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CAMPSHARE_SMS_PROVIDER", "relay")

		_, err := Load()
		if err == nil || err.Error() != "required environment variables are not set: CAMPSHARE_SMS_RELAY_URL" {
			t.Fatalf("unexpected error: %v", err)
		}

		t.Setenv("CAMPSHARE_SMS_RELAY_URL", "https://sms.example.com/api/send-sms")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.SMSRelayURL != "https://sms.example.com/api/send-sms" {
			t.Fatalf("unexpected relay url %q", cfg.SMSRelayURL)
		}
	})

	t.Run("reads explicit env files", func(t *testing.T) {
		clearEnv(t)

		path := filepath.Join(t.TempDir(), "campshare.env")
		contents := "CAMPSHARE_VERIFICATION_CODE=654321\nTWILIO_ACCOUNT_SID=AC1\nTWILIO_AUTH_TOKEN=token\nTWILIO_PHONE_NUMBER=+15550001111\n"
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.VerificationCode != "654321" {
			t.Fatalf("expected code from env file, got %q", cfg.VerificationCode)
		}
		if !cfg.TwilioConfigured() {
			t.Fatalf("expected Twilio credentials from env file")
		}

		if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Fatalf("expected error for missing explicit env file")
		}
	})
}
