package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/example/campshare/internal/application"
	"github.com/example/campshare/internal/config"
	"github.com/example/campshare/internal/notify"
	"github.com/example/campshare/internal/persistence"
	"github.com/example/campshare/internal/persistence/memory"
	"github.com/example/campshare/internal/persistence/redis"
	"github.com/example/campshare/internal/persistence/sqlite"
)

type closableStore interface {
	persistence.KeyValueStore
	Close() error
}

// openStore connects the key-value backend named by cfg.Store.
func openStore(ctx context.Context, cfg config.Config) (closableStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreRedis:
		store, err := redis.Open(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreSQLite, "":
		store, err := sqlite.Open(ctx, sqlite.DefaultConfig(cfg.SQLiteDSN))
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, errors.Join(err, store.Close())
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// smsBurst is how many messages may go out back to back before throttling applies.
const smsBurst = 5

func twilioConfig(cfg config.Config) notify.TwilioConfig {
	return notify.TwilioConfig{
		AccountSID:    cfg.TwilioAccountSID,
		AuthToken:     cfg.TwilioAuthToken,
		FromNumber:    cfg.TwilioFromNumber,
		CountryPrefix: cfg.SMSCountryPrefix,
	}
}

// newSender picks the SMS provider and applies the configured rate limit. Under "auto"
// Twilio wins over the relay.
func newSender(cfg config.Config, logger *slog.Logger) notify.Sender {
	return notify.NewThrottledSender(baseSender(cfg, logger), cfg.SMSRatePerMinute, smsBurst)
}

func baseSender(cfg config.Config, logger *slog.Logger) notify.Sender {
	twilioCfg := twilioConfig(cfg)
	relay := func() notify.Sender {
		return notify.NewRelaySender(cfg.SMSRelayURL, cfg.SMSCountryPrefix, logger, notify.WithAccountSID(cfg.TwilioAccountSID))
	}

	switch cfg.SMSProvider {
	case config.SMSProviderTwilio:
		return notify.NewTwilioSender(twilioCfg, logger)
	case config.SMSProviderRelay:
		return relay()
	case config.SMSProviderNone:
		return notify.UnconfiguredSender{Reason: "SMS delivery disabled"}
	}

	switch {
	case twilioCfg.Configured():
		return notify.NewTwilioSender(twilioCfg, logger)
	case cfg.SMSRelayURL != "":
		return relay()
	default:
		return notify.UnconfiguredSender{}
	}
}

func newCredentials(cfg config.Config) application.Credentials {
	if cfg.PasswordMode == config.PasswordModeArgon2id {
		return application.Argon2idCredentials{Params: application.DefaultArgon2idParams}
	}
	return application.PlaintextCredentials{}
}

// openContainer wires a container over the configured store. The returned close func
// releases the store.
func openContainer(ctx context.Context, rt *runtime, sender notify.Sender) (*application.Container, func() error, error) {
	store, err := openStore(ctx, rt.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", rt.cfg.Store, err)
	}

	container, err := application.Open(ctx, application.Deps{
		Repository:  persistence.NewRepository(store),
		Sender:      sender,
		Credentials: newCredentials(rt.cfg),
		Verifier:    application.FixedCodeVerifier{Code: rt.cfg.VerificationCode},
		IDGenerator: uuid.NewString,
		Logger:      rt.logger,
	})
	if err != nil {
		return nil, nil, errors.Join(err, store.Close())
	}
	return container, store.Close, nil
}
