// Package ratelimit caps requests per caller with token buckets.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"
)

// Rule allows Count events per Per window.
type Rule struct {
	Count int
	Per   time.Duration
}

func PerMinute(n int) Rule { return Rule{Count: n, Per: time.Minute} }
func PerHour(n int) Rule   { return Rule{Count: n, Per: time.Hour} }
func PerDay(n int) Rule    { return Rule{Count: n, Per: 24 * time.Hour} }

func (r Rule) String() string {
	switch r.Per {
	case time.Minute:
		return fmt.Sprintf("%d per minute", r.Count)
	case time.Hour:
		return fmt.Sprintf("%d per hour", r.Count)
	case 24 * time.Hour:
		return fmt.Sprintf("%d per day", r.Count)
	}
	return fmt.Sprintf("%d per %s", r.Count, r.Per)
}

func (r Rule) limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(r.Per/time.Duration(r.Count)), r.Count)
}

type entry struct {
	limiters []*rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one set of buckets per key. A request passes only if every
// rule has a token; tokens are not consumed when any rule rejects.
type Limiter struct {
	rules []Rule
	now   func() time.Time

	mu   sync.Mutex
	keys map[string]*entry
}

// New panics on a rule without a positive Count and Per; rules are fixed at
// startup.
func New(rules ...Rule) *Limiter {
	for _, r := range rules {
		if r.Count <= 0 || r.Per <= 0 {
			panic(fmt.Sprintf("ratelimit: invalid rule %q", r.String()))
		}
	}
	return &Limiter{
		rules: rules,
		now:   time.Now,
		keys:  make(map[string]*entry),
	}
}

// Allow takes a token for key. When rejected it returns how long to wait and
// the rule that was hit.
func (l *Limiter) Allow(key string) (bool, time.Duration, Rule) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.keys[key]
	if !ok {
		e = &entry{limiters: make([]*rate.Limiter, len(l.rules))}
		for i, r := range l.rules {
			e.limiters[i] = r.limiter()
		}
		l.keys[key] = e
	}
	e.lastSeen = now

	taken := make([]*rate.Reservation, 0, len(e.limiters))
	for i, lim := range e.limiters {
		res := lim.ReserveN(now, 1)
		if d := res.DelayFrom(now); !res.OK() || d > 0 {
			res.CancelAt(now)
			for _, t := range taken {
				t.CancelAt(now)
			}
			return false, d, l.rules[i]
		}
		taken = append(taken, res)
	}
	return true, 0, Rule{}
}

// Sweep forgets keys idle for longer than idle.
func (l *Limiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-idle)
	n := 0
	for k, e := range l.keys {
		if e.lastSeen.Before(cutoff) {
			delete(l.keys, k)
			n++
		}
	}
	return n
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// Run sweeps idle keys every interval until ctx is done. Keys idle longer than
// the widest rule window are dropped since their buckets are full again.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	var widest time.Duration
	for _, r := range l.rules {
		widest = max(widest, r.Per)
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep(widest)
		}
	}
}

func retryAfterSeconds(d time.Duration) int {
	return int(math.Ceil(d.Truncate(time.Millisecond).Seconds()))
}

// ClientKey is the caller's network address without the port.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests over the limit with 429. scope separates
// buckets of limiters that share a key space.
func (l *Limiter) Middleware(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + "|" + ClientKey(r)
			ok, wait, rule := l.Allow(key)
			if !ok {
				hlog.FromRequest(r).Warn().
					Str("scope", scope).
					Str("client", ClientKey(r)).
					Str("rule", rule.String()).
					Dur("retry_after", wait).
					Msg("rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded: " + rule.String(),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
