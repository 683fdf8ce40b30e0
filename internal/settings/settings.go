// Package settings gives read-only access to the stored inference token and
// model identifier.
package settings

import (
	"context"
	"errors"
	"strings"
)

const (
	KeyToken = "hf_token"
	KeyModel = "hf_model"
)

// Store returns the value for key, or "" when it is not set.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// Static serves fixed values, usually from configuration.
type Static map[string]string

func (s Static) Get(_ context.Context, key string) (string, error) {
	return strings.TrimSpace(s[key]), nil
}

// Layered asks each store in order and returns the first non-empty value.
// A failing store is skipped; its error is returned only when no later store
// has the value.
type Layered []Store

func (l Layered) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for _, s := range l {
		if s == nil {
			continue
		}
		v, err := s.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if v != "" {
			return v, nil
		}
	}
	return "", errors.Join(errs...)
}
