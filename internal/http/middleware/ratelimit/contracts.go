package ratelimit

import "time"

// Limiter decides whether client may send one more request of class.
// When it refuses, wait is how long until the next token of that class.
type Limiter interface {
	Allow(client string, class Class) (ok bool, wait time.Duration)
}

// Clock returns the current time.
type Clock func() time.Time
