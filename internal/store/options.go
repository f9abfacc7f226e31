// Package store persists prompts and conversations as serialized collections in a blob store.
package store

import (
	"time"

	"github.com/google/uuid"
)

// Option configures a store
type Option func(*settings)

type settings struct {
	now   func() time.Time
	newID func() string
}

func defaultSettings(opts []Option) settings {
	s := settings{
		now:   func() time.Time { return time.Now().UTC() },
		newID: newUUID,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithIDGenerator overrides record id generation
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) { s.newID = newID }
}

// newUUID returns a time-ordered UUID, falling back to a random one
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
