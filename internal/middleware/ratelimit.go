package middleware

import (
	"net"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/gotodos/backend/api/transport"
	"github.com/gotodos/backend/internal/ratelimit"
	"github.com/gotodos/backend/internal/token"
)

// ThrottleMessage is the body returned whenever the todo prefix throttles a
// request, including unmatched paths under it.
const ThrottleMessage = "Too many requests. Please wait before retrying."

// KeyFunc derives the throttle key for a request and reports whether it
// belongs to an authenticated user.
type KeyFunc func(ctx *fasthttp.RequestCtx) (key string, authenticated bool)

// TokenKeyFunc keys by user ID when the request carries a parseable token,
// falling back to the client IP. Only the signature is checked here; the auth
// middleware still does the full session lookup afterwards.
func TokenKeyFunc(tokens *token.Manager) KeyFunc {
	return func(ctx *fasthttp.RequestCtx) (string, bool) {
		if tokenString := extractToken(ctx); tokenString != "" {
			if claims, err := tokens.Parse(tokenString); err == nil {
				return "user:" + claims.UserID, true
			}
		}
		return "ip:" + clientIP(ctx), false
	}
}

// RateLimitOptions wires the per-identity stores and optional stats sink.
type RateLimitOptions struct {
	Users  ratelimit.Limiter
	IPs    ratelimit.Limiter
	KeyFn  KeyFunc
	Stats  ratelimit.Stats
	Logger *zap.Logger
}

// RateLimit gates the todo routes: 250/min per authenticated user, 100/min
// per source IP otherwise.
func RateLimit(opts RateLimitOptions) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			key, authenticated := opts.KeyFn(ctx)

			limiter := opts.IPs
			if authenticated {
				limiter = opts.Users
			}

			allowed := limiter.Allow(ctx, key)
			if opts.Stats != nil {
				if err := opts.Stats.Record(key, allowed); err != nil {
					logger.Warn("throttle stats write failed", zap.Error(err))
				}
			}

			if !allowed {
				TooManyRequests(ctx)
				return
			}
			next(ctx)
		}
	}
}

// TooManyRequests writes the canonical 429 body.
func TooManyRequests(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusTooManyRequests, transport.Message(ThrottleMessage))
}

func clientIP(ctx *fasthttp.RequestCtx) string {
	addr := ctx.RemoteAddr()
	if addr == nil {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr.String()); err == nil && host != "" {
		return host
	}
	return addr.String()
}
