// Package theme resolves and toggles a visitor's light/dark preference.
package theme

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"tokini/internal/storage"
)

// Theme is a visual theme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the slot the preference is stored under.
const StorageKey = "tokini-theme"

// Parse returns the theme named by value.
func Parse(value string) (Theme, bool) {
	switch Theme(value) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	default:
		return "", false
	}
}

// Other returns the opposite theme.
func (t Theme) Other() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Icon names the icon of the toggle button, which shows the theme a click
// switches to.
func (t Theme) Icon() string {
	if t == Dark {
		return "light_mode"
	}
	return "dark_mode"
}

// Preference is one visitor's theme bound to its durable slot.
type Preference struct {
	mu      sync.Mutex
	store   storage.Preferences
	scope   string
	current Theme
}

// Load reads the stored theme once. Without a valid stored value it falls back
// to the ambient prefersDark signal. Storage errors are logged and treated as
// "nothing stored".
func Load(ctx context.Context, store storage.Preferences, scope string, prefersDark bool) *Preference {
	p := &Preference{store: store, scope: scope, current: Light}
	if prefersDark {
		p.current = Dark
	}
	if store == nil {
		return p
	}
	value, ok, err := store.Get(ctx, scope, StorageKey)
	if err != nil {
		log.WithFields(log.Fields{
			"scope": scope,
			"error": err,
		}).Warn("Failed to read theme preference")
		return p
	}
	if !ok {
		return p
	}
	if t, valid := Parse(value); valid {
		p.current = t
	}
	return p
}

// Current returns the active theme.
func (p *Preference) Current() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Toggle flips the theme and writes it. The write happens under the lock so
// concurrent toggles reach the store in the order they flipped. A failed
// write is logged; the in-memory theme still flips.
func (p *Preference) Toggle(ctx context.Context) Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.current.Other()
	if p.store == nil {
		return p.current
	}
	if err := p.store.Set(ctx, p.scope, StorageKey, string(p.current)); err != nil {
		log.WithFields(log.Fields{
			"scope": p.scope,
			"theme": p.current,
			"error": err,
		}).Warn("Failed to persist theme preference")
	}
	return p.current
}
