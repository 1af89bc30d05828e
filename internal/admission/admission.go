// Package admission guards the listener's accept loop against a single
// remote address monopolizing it, using a sliding-window rate limiter. It is
// an operational concern, not an authentication mechanism — it never
// inspects credentials (spec.md's "authentication accepts any well-formed
// identifier" non-goal is untouched).
package admission

import (
	"time"

	catrate "github.com/joeycumines/go-catrate"
)

// Limiter admits or rejects connection attempts per remote address.
type Limiter struct {
	rate *catrate.Limiter
}

// Config controls the sliding window applied per remote address.
type Config struct {
	// Window is the sliding-window duration. Zero disables admission
	// control entirely (every connection is allowed).
	Window time.Duration

	// Max is the maximum number of connection attempts allowed per Window,
	// per remote address.
	Max int
}

// DefaultConfig allows a generous burst before throttling a single address,
// without needing any operator configuration for the common case.
var DefaultConfig = Config{Window: time.Minute, Max: 120}

// New constructs a Limiter from cfg. A zero Window disables admission
// control.
func New(cfg Config) *Limiter {
	if cfg.Window <= 0 || cfg.Max <= 0 {
		return &Limiter{}
	}
	return &Limiter{rate: catrate.NewLimiter(map[time.Duration]int{cfg.Window: cfg.Max})}
}

// Allow reports whether a new connection from remoteAddr should be accepted.
func (l *Limiter) Allow(remoteAddr string) bool {
	if l == nil || l.rate == nil {
		return true
	}
	_, ok := l.rate.Allow(remoteAddr)
	return ok
}
