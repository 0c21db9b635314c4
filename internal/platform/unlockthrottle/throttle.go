package unlockthrottle

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle applies a token bucket per wallet alias so repeated password
// guesses against one key are slowed down without affecting others. Idle
// aliases are evicted periodically.
type Throttle struct {
	limit   rate.Limit
	burst   int
	mu      sync.Mutex
	byAlias map[string]*entry
	hits    uint64
	idleTTL time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates an alias-based throttle; returns nil if args are invalid.
// A nil Throttle allows everything.
func New(attemptsPerSecond float64, burst int, idleTTL time.Duration) *Throttle {
	if attemptsPerSecond <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &Throttle{
		limit:   rate.Limit(attemptsPerSecond),
		burst:   burst,
		byAlias: make(map[string]*entry),
		idleTTL: idleTTL,
	}
}

// Allow reports whether one unlock attempt may proceed for the alias at now.
func (t *Throttle) Allow(alias string, now time.Time) bool {
	if t == nil {
		return true
	}
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.byAlias[alias]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.byAlias[alias] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	t.hits++
	if t.hits%256 == 0 {
		cutoff := now.Add(-t.idleTTL)
		for alias, e := range t.byAlias {
			if e.lastSeen.Before(cutoff) {
				delete(t.byAlias, alias)
			}
		}
	}

	return allowed
}

// Reset forgets the attempt history for an alias, typically after a
// successful unlock.
func (t *Throttle) Reset(alias string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byAlias, strings.TrimSpace(alias))
}
