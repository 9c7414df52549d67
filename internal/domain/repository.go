package domain

import (
	"context"
	"time"
)

// SpecProvider is one data source capable of answering a product query.
// Implementations must return a fully populated ProductSpec or an error,
// never a nil record without an error.
type SpecProvider interface {
	Name() string
	Search(ctx context.Context, query string) (*ProductSpec, error)
}

// SpecCache defines the interface for caching fused lookup results.
// It sits outside the resolver: core resolution stays stateless per call.
type SpecCache interface {
	Get(ctx context.Context, key string) (*ProductSpec, error)
	Set(ctx context.Context, key string, value *ProductSpec, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
