package providers

import (
	"log/slog"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/catalog-server/internal/config"
	"github.com/listenupapp/catalog-server/internal/ratelimit"
)

// limiterIdleTTL is how long an IP's bucket is kept after its last attempt.
const limiterIdleTTL = 10 * time.Minute

// ProvideLoginLimiter provides the per-IP login rate limiter.
// Its cleanup goroutine is stopped by the container on shutdown.
func ProvideLoginLimiter(i do.Injector) (*ratelimit.KeyedRateLimiter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	limiter := ratelimit.New(
		ratelimit.PerMinute(cfg.Auth.LoginRatePerMinute),
		cfg.Auth.LoginRateBurst,
		limiterIdleTTL,
	)

	log.Info("Login rate limiter started",
		"per_minute", cfg.Auth.LoginRatePerMinute,
		"burst", cfg.Auth.LoginRateBurst,
	)

	return limiter, nil
}
