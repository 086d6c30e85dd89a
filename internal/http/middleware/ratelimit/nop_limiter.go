package ratelimit

import "time"

// NopLimiter lets every request through; used when rate limiting is disabled.
type NopLimiter struct{}

func (NopLimiter) Allow(string, Class) (bool, time.Duration) { return true, 0 }
