package store

import (
	"context"

	"github.com/joy-dx/lockablemap"
)

// MemoryBackend keeps the session in process memory. An empty value reads as
// absent.
type MemoryBackend struct {
	values *lockablemap.LockableMap[string, string]
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: lockablemap.NewLockableMap[string, string]()}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := b.values.Get(key)
	if err != nil || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

func (b *MemoryBackend) SetMany(ctx context.Context, values map[string]string) error {
	for k, v := range values {
		b.values.Set(k, v)
	}
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		b.values.Remove(k)
	}
	return nil
}
