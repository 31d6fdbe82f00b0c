package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/event-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/event-api/internal/service"
)

const (
	AuthorizationHeader = "X-Authorization"
	UserIDKey           = "userID"
)

var errMissingToken = errors.New("missing " + AuthorizationHeader + " header")

type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (uint, error)
}

type Authenticator struct {
	svc TokenAuthenticator
}

func NewAuthenticator(svc TokenAuthenticator) *Authenticator {
	return &Authenticator{
		svc: svc,
	}
}

// VerifyToken rejects the request unless it carries a live session token.
func (a *Authenticator) VerifyToken() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromHeader(ctx)
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		userID, err := a.svc.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				response.RenderErr(ctx, response.ErrUnauthorized(err))
				return
			}

			err = fmt.Errorf("middleware.VerifyToken -> a.svc.Authenticate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		ctx.Set(UserIDKey, userID)
		ctx.Next()
	}
}

// OptionalToken resolves the caller when a valid token is present and lets anonymous
// requests through. A bad token is treated as no token.
func (a *Authenticator) OptionalToken() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromHeader(ctx)
		if token == "" {
			ctx.Next()
			return
		}

		userID, err := a.svc.Authenticate(ctx.Request.Context(), token)
		if err != nil {
			zap.L().Debug("ignoring invalid token on optional auth route",
				zap.String("path", ctx.FullPath()), zap.Error(err))
			ctx.Next()
			return
		}

		ctx.Set(UserIDKey, userID)
		ctx.Next()
	}
}

// UserIDFromContext returns the id stored by VerifyToken or OptionalToken.
func UserIDFromContext(ctx *gin.Context) (uint, bool) {
	value, ok := ctx.Get(UserIDKey)
	if !ok {
		return 0, false
	}

	userID, ok := value.(uint)

	return userID, ok && userID != 0
}

func tokenFromHeader(ctx *gin.Context) string {
	token := strings.TrimSpace(ctx.GetHeader(AuthorizationHeader))

	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}
