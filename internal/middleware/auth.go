package middleware

import (
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/gotodos/backend/api/transport"
	"github.com/gotodos/backend/domain"
	authUC "github.com/gotodos/backend/usecase/auth"
)

const identityKey = "auth_identity"

// Auth guards a route: the bearer token must parse, be unexpired, and
// reference a live session. Failures all look the same to the client.
func Auth(uc *authUC.UseCase, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthenticated(ctx)
				return
			}

			identity, err := uc.Authenticate(ctx, tokenString)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				unauthenticated(ctx)
				return
			}

			ctx.SetUserValue(identityKey, identity)
			next(ctx)
		}
	}
}

// IdentityFrom returns the identity stored by Auth, or nil on an unguarded
// route.
func IdentityFrom(ctx *fasthttp.RequestCtx) *authUC.Identity {
	identity, _ := ctx.UserValue(identityKey).(*authUC.Identity)
	return identity
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func unauthenticated(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusUnauthorized, transport.Message(domain.ErrUnauthenticated.Message))
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Response) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}
