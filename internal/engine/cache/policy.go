package cache

import (
	"math"
	"time"
)

// NeverExpire is a TTL long enough that a present record is never stale.
const NeverExpire = time.Duration(math.MaxInt64)

// State is the input to a refresh decision.
type State struct {
	// Exists reports whether the record is present on disk.
	Exists bool

	// Age is the time since the record was last written. Only meaningful when Exists
	// is true and the policy needs it.
	Age time.Duration

	// Force requests a refresh regardless of the cached record.
	Force bool
}

// Policy decides whether a cached record must be refetched.
type Policy interface {
	// NeedsAge reports whether ShouldRefresh reads State.Age.
	NeedsAge() bool

	// ShouldRefresh returns true when the record must be fetched again.
	ShouldRefresh(state State) bool

	// String names the policy for logs.
	String() string
}

// PresenceOnly trusts a record indefinitely once it exists.
type PresenceOnly struct{}

// NeedsAge implements Policy.
func (PresenceOnly) NeedsAge() bool { return false }

// ShouldRefresh implements Policy.
func (PresenceOnly) ShouldRefresh(state State) bool {
	return !state.Exists || state.Force
}

func (PresenceOnly) String() string { return "presence-only" }

// TTLPolicy refetches a record once it is older than TTL.
type TTLPolicy struct {
	TTL time.Duration
}

// NewTTLPolicy returns a policy with the given TTL.
func NewTTLPolicy(ttl time.Duration) TTLPolicy {
	return TTLPolicy{TTL: ttl}
}

// NeedsAge implements Policy.
func (TTLPolicy) NeedsAge() bool { return true }

// ShouldRefresh implements Policy.
func (p TTLPolicy) ShouldRefresh(state State) bool {
	return !state.Exists || state.Force || state.Age > p.TTL
}

func (p TTLPolicy) String() string {
	if p.TTL == NeverExpire {
		return "ttl(never)"
	}
	return "ttl(" + FormatDuration(p.TTL) + ")"
}
