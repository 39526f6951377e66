package config

import (
	"sync/atomic"
)

// Live holds the current configuration and is safe for concurrent use.
// Readers see either the old or the new value, never a mix.
type Live struct {
	cur atomic.Pointer[Config]
}

// NewLive creates a holder seeded with cfg.
func NewLive(cfg Config) *Live {
	l := &Live{}
	l.Store(cfg)
	return l
}

// Load returns the current configuration.
func (l *Live) Load() Config {
	return *l.cur.Load()
}

// Store publishes a new configuration.
func (l *Live) Store(cfg Config) {
	cfg.Auth.APIKeys = append([]string(nil), cfg.Auth.APIKeys...)
	l.cur.Store(&cfg)
}

// APIKeys returns the accepted API keys.
func (l *Live) APIKeys() []string {
	return l.cur.Load().Auth.APIKeys
}

// Profile returns the public profile.
func (l *Live) Profile() ProfileConfig {
	return l.cur.Load().Profile
}

// ViewTimeLimitDays returns the public view window in days.
func (l *Live) ViewTimeLimitDays() int {
	return l.cur.Load().Content.ViewTimeLimitDays
}
