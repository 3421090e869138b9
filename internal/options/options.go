// Package options holds the bounded list of candidates a roll chooses from.
package options

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

// MaxOptions is the capacity of a list.
const MaxOptions = 10

var (
	ErrEmptyInput          = errors.New("option is empty")
	ErrDuplicateOption     = errors.New("option already exists")
	ErrCapacityExceeded    = errors.New("option list is full")
	ErrIndexOutOfRange     = errors.New("option index out of range")
	ErrInsufficientOptions = errors.New("at least two options are required")
)

// Rand draws an integer uniformly from [0, n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

// IntN uses the runtime-seeded ChaCha8 source of math/rand/v2.
func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand is the package-level source shared by lists and dice faces.
var DefaultRand Rand = globalRand{}

// List is an ordered set of distinct, non-empty options. It is safe for
// concurrent use.
type List struct {
	mu    sync.RWMutex
	items []string
	rnd   Rand
}

// NewList creates an empty list drawing from rnd. A nil rnd uses DefaultRand.
func NewList(rnd Rand) *List {
	if rnd == nil {
		rnd = DefaultRand
	}
	return &List{rnd: rnd, items: make([]string, 0, MaxOptions)}
}

// Add trims text and appends it to the end of the list.
func (l *List) Add(text string) error {
	option := strings.TrimSpace(text)
	if option == "" {
		return ErrEmptyInput
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.items, option) {
		return ErrDuplicateOption
	}
	if len(l.items) >= MaxOptions {
		return ErrCapacityExceeded
	}
	l.items = append(l.items, option)
	return nil
}

// RemoveAt deletes the option at index, shifting later options left.
func (l *List) RemoveAt(index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.items) {
		return ErrIndexOutOfRange
	}
	l.items = slices.Delete(l.items, index, index+1)
	return nil
}

// Count returns the number of options.
func (l *List) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns a copy of the options in insertion order.
func (l *List) Items() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

// PickRandom returns one option chosen uniformly. The list is not modified.
func (l *List) PickRandom() (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.items) < 2 {
		return "", ErrInsufficientOptions
	}
	return l.items[l.rnd.IntN(len(l.items))], nil
}
