package api

import (
	"net"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
)

// loginRetryAfter is the Retry-After hint sent with a 429, in seconds.
const loginRetryAfter = 60

// loginRateLimit is a huma operation middleware that throttles login
// attempts per client IP. Returns 429 Too Many Requests when exceeded.
func (s *Server) loginRateLimit(ctx huma.Context, next func(huma.Context)) {
	if s.loginLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if !s.loginLimiter.Allow(key) {
		s.logger.WarnContext(ctx.Context(), "login rate limit exceeded", "ip", key)
		ctx.SetHeader("Retry-After", strconv.Itoa(loginRetryAfter))
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "Too Many Attempts.",
			domainerrors.RateLimited("Too Many Attempts."))
		return
	}

	next(ctx)
}

// clientIP strips the port from a remote address.
// chi's RealIP middleware has already applied X-Forwarded-For / X-Real-IP.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
