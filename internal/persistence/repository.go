package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// KeyValueStore is the raw byte store behind a Repository.
// Get returns ErrNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Repository saves and loads whole collections keyed by bucket name.
type Repository interface {
	Save(ctx context.Context, bucket string, value any) error
	Load(ctx context.Context, bucket string, dst any) (bool, error)
	Remove(ctx context.Context, bucket string) error
}

// JSONRepository serializes bucket values as JSON documents in a KeyValueStore.
type JSONRepository struct {
	store KeyValueStore
}

// NewRepository wraps the store in a JSON repository.
func NewRepository(store KeyValueStore) *JSONRepository {
	return &JSONRepository{store: store}
}

// Save replaces the bucket contents with the JSON encoding of value.
func (r *JSONRepository) Save(ctx context.Context, bucket string, value any) error {
	if r == nil || r.store == nil {
		return fmt.Errorf("persistence: repository is not configured")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", bucket, err)
	}

	if err := r.store.Set(ctx, bucket, payload); err != nil {
		return fmt.Errorf("failed to save %s: %w", bucket, err)
	}
	return nil
}

// Load decodes the bucket into dst. It reports false without error when the bucket is absent.
func (r *JSONRepository) Load(ctx context.Context, bucket string, dst any) (bool, error) {
	if r == nil || r.store == nil {
		return false, fmt.Errorf("persistence: repository is not configured")
	}

	payload, err := r.store.Get(ctx, bucket)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", bucket, err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return true, fmt.Errorf("failed to unmarshal %s: %w", bucket, err)
	}
	return true, nil
}

// Remove deletes the bucket. Removing an absent bucket is not an error.
func (r *JSONRepository) Remove(ctx context.Context, bucket string) error {
	if r == nil || r.store == nil {
		return fmt.Errorf("persistence: repository is not configured")
	}

	if err := r.store.Delete(ctx, bucket); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to remove %s: %w", bucket, err)
	}
	return nil
}
