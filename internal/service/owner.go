package service

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// normalizeOwner lower-cases raw and keeps only [a-z0-9_-]. The result names
// a storage directory, so nothing else may survive.
func normalizeOwner(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("%w: username %q has no usable characters", ErrValidation, raw)
	}
	return b.String(), nil
}

// clock hands out UTC timestamps that strictly increase across calls, even
// when the wall clock stalls or steps back. The step is one microsecond so
// the order survives PostgreSQL's timestamp precision.
type clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newClock() *clock {
	return &clock{now: time.Now}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
