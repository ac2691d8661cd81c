package handlers

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rschio/pawnshop/internal/web"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

func (s *Server) middlewareWeb(tracer trace.Tracer, route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), route)
		defer span.End()

		v := web.Values{
			TraceID: span.SpanContext().TraceID().String(),
			Tracer:  tracer,
			Now:     time.Now().UTC(),
		}
		ctx = web.SetValues(ctx, &v)
		r = r.WithContext(ctx)

		done := s.metrics.Start(r.Method, route)
		defer func() {
			if v.StatusCode == 0 {
				v.StatusCode = http.StatusOK
			}
			span.SetAttributes(attribute.Int("http.status_code", v.StatusCode))
			done(v.StatusCode)
		}()

		if s.limiter != nil && !s.limiter.allow(clientIP(r)) {
			s.metrics.RateLimited()
			s.respondError(ctx, w, errRateLimited)
			return
		}

		h(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ipLimiter keeps one token bucket per remote address. Buckets idle for
// longer than the sweep age are dropped.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

type ipEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipLimiter{
		limiters: make(map[string]*ipEntry),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	e, ok := l.limiters[ip]
	if !ok {
		e = &ipEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = l.now()
	l.mu.Unlock()

	return e.lim.Allow()
}

// sweep drops the buckets not used for idle and returns how many are left.
func (l *ipLimiter) sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	for ip, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
	return len(l.limiters)
}

// run sweeps every interval until ctx is done.
func (l *ipLimiter) run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(idle)
		}
	}
}

// StartLimiterCleanup drops idle rate limit buckets in the background
// until ctx is done. It does nothing when rate limiting is off.
func (s *Server) StartLimiterCleanup(ctx context.Context, interval, idle time.Duration) {
	if s.limiter == nil {
		return
	}
	go s.limiter.run(ctx, interval, idle)
}
