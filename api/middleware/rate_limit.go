package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/packfinderz-shipping/api/responses"
	pkgerrors "github.com/angelmondragon/packfinderz-shipping/pkg/errors"
	"github.com/angelmondragon/packfinderz-shipping/pkg/logger"
	"github.com/angelmondragon/packfinderz-shipping/pkg/redis"
)

// RateLimiterStore counts requests in a fixed window per scope.
type RateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.WindowDecision, error)
}

// RateLimitPolicy defines the throttling parameters for a traffic surface.
type RateLimitPolicy struct {
	name    string
	window  time.Duration
	limit   int
	trusted []netip.Prefix
}

// NewRateLimitPolicy builds a per-client-IP policy with the supplied window and limit.
func NewRateLimitPolicy(name string, window time.Duration, limit int) RateLimitPolicy {
	return RateLimitPolicy{
		name:   strings.ToLower(strings.TrimSpace(name)),
		window: window,
		limit:  limit,
	}
}

// WithTrustedProxies returns a copy of the policy that reads the client
// address from X-Forwarded-For when the peer is one of the given proxies.
func (p RateLimitPolicy) WithTrustedProxies(prefixes []netip.Prefix) RateLimitPolicy {
	p.trusted = append([]netip.Prefix(nil), prefixes...)
	return p
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

func (p RateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "default"
	}
	return p.name
}

func (p RateLimitPolicy) scope(ip string) string {
	if ip == "" {
		return ""
	}
	return p.normalizedName() + ":ip:" + ip
}

// RateLimit enforces a fixed-window per-IP counter. A zero policy or a nil
// store disables it.
func RateLimit(policy RateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r, policy.trusted)
			scope := policy.scope(ip)
			if scope == "" {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := store.FixedWindowAllow(ctx, scope, int64(policy.limit), policy.window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !decision.Allowed {
				respondRateLimited(ctx, logg, w, policy, ip, decision)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy RateLimitPolicy, ip string, decision redis.WindowDecision) {
	retryAfter := decision.RetryAfter
	if retryAfter <= 0 {
		retryAfter = policy.window
	}
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"policy":         policy.normalizedName(),
			"ip":             ip,
			"attempts":       decision.Count,
			"limit":          policy.limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

// clientIP returns the address the limiter keys on. Forwarding headers are
// only honoured when the peer is a trusted proxy, and X-Forwarded-For is read
// right to left so the first untrusted hop wins. Client-supplied entries to
// the left of it are ignored.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	if r == nil {
		return ""
	}
	peer := peerAddr(r.RemoteAddr)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !isTrusted(addr, trusted) {
		return peer
	}

	if header := r.Header.Values("X-Forwarded-For"); len(header) > 0 {
		hops := strings.Split(strings.Join(header, ","), ",")
		client := peer
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			hop = hop.Unmap()
			client = hop.String()
			if !isTrusted(hop, trusted) {
				break
			}
		}
		return client
	}
	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}
	return peer
}

func peerAddr(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil || host == "" {
		return strings.TrimSpace(remote)
	}
	return host
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
