package ratelimit

import (
	"math"
	"sync"
	"time"
)

// fullTableWait is reported when a new client cannot get a bucket.
const fullTableWait = time.Second

// Policy is the refill setting of one request class.
type Policy struct {
	Rate  float64 // tokens per second
	Burst int     // bucket capacity
}

func (p Policy) normalized() Policy {
	if p.Rate <= 0 {
		p.Rate = 1
	}
	if p.Burst <= 0 {
		p.Burst = 1
	}
	return p
}

// Config stores TokenBucketLimiter settings.
type Config struct {
	Read       Policy
	Write      Policy
	TTL        time.Duration // idle buckets are dropped after TTL, 0 keeps them
	MaxBuckets int           // 0 is unlimited
}

// TokenBucketLimiter keeps one bucket per client and class.
// When MaxBuckets is reached new clients are refused until idle buckets expire.
type TokenBucketLimiter struct {
	policies [2]Policy
	ttl      time.Duration
	max      int
	now      Clock

	mu          sync.RWMutex
	buckets     map[bucketKey]*bucket
	lastCleanup time.Time
}

type bucketKey struct {
	client string
	class  Class
}

type bucket struct {
	mu       sync.Mutex
	tokens   float64
	last     time.Time
	lastSeen time.Time
}

// NewTokenBucketLimiter creates the limiter; a nil clock means time.Now.
func NewTokenBucketLimiter(now Clock, cfg Config) *TokenBucketLimiter {
	if now == nil {
		now = time.Now
	}
	if cfg.MaxBuckets < 0 {
		cfg.MaxBuckets = 0
	}
	return &TokenBucketLimiter{
		policies: [2]Policy{ClassRead: cfg.Read.normalized(), ClassWrite: cfg.Write.normalized()},
		ttl:      cfg.TTL,
		max:      cfg.MaxBuckets,
		now:      now,
		buckets:  make(map[bucketKey]*bucket),
	}
}

// Policy returns the policy applied to class.
func (l *TokenBucketLimiter) Policy(class Class) Policy {
	if class > ClassWrite {
		class = ClassWrite
	}
	return l.policies[class]
}

// Allow takes one token from the client's bucket of class.
func (l *TokenBucketLimiter) Allow(client string, class Class) (bool, time.Duration) {
	now := l.now()
	p := l.Policy(class)
	l.maybeCleanup(now)

	b := l.bucketFor(bucketKey{client: client, class: class}, p, now)
	if b == nil {
		return false, fullTableWait
	}
	return b.take(now, p)
}

func (l *TokenBucketLimiter) bucketFor(key bucketKey, p Policy, now time.Time) *bucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b = l.buckets[key]; b != nil {
		return b
	}
	if l.max > 0 && len(l.buckets) >= l.max {
		return nil
	}
	b = &bucket{tokens: float64(p.Burst), last: now, lastSeen: now}
	l.buckets[key] = b
	return b
}

func (b *bucket) take(now time.Time, p Policy) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.last); dt > 0 {
		b.tokens = math.Min(b.tokens+dt.Seconds()*p.Rate, float64(p.Burst))
		b.last = now
	}
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1 - b.tokens) / p.Rate * float64(time.Second))
	return false, wait
}

// maybeCleanup drops idle buckets at most once per max(TTL/2, 1m).
func (l *TokenBucketLimiter) maybeCleanup(now time.Time) {
	if l.ttl <= 0 {
		return
	}
	interval := time.Minute
	if half := l.ttl / 2; half > interval {
		interval = half
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < interval {
		return
	}
	l.lastCleanup = now

	for k, b := range l.buckets {
		b.mu.Lock()
		idle := now.Sub(b.lastSeen)
		b.mu.Unlock()
		if idle > l.ttl {
			delete(l.buckets, k)
		}
	}
}
