package middleware

import (
	"context"
	"strings"

	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/router"
	"github.com/pointward/backend/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) error {
		if a.useAccessToken {
			token := extractBearerToken(ctx)
			if token == "" {
				return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
			}

			info, err := xcontext.TokenEngine(ctx).Verify(token)
			if err != nil {
				xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
				return errorx.New(errorx.Unauthenticated, "Invalid access token")
			}

			xcontext.SetRequestUserID(ctx, info.ID)
			return nil
		}

		return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

func extractBearerToken(ctx context.Context) string {
	authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
	if !strings.HasPrefix(authorization, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(authorization, "Bearer ")
}
