// Package storage defines the durable key-value contract for visitor preferences.
package storage

import "context"

// Preferences stores small string values per visitor scope.
type Preferences interface {
	// Get returns the value for key in scope; ok is false when nothing is stored.
	Get(ctx context.Context, scope, key string) (value string, ok bool, err error)
	// Set stores value for key in scope, replacing any previous value.
	Set(ctx context.Context, scope, key, value string) error
}
