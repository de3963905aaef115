package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type ctxKey string

var ctxKeyAuthUserID ctxKey = "AUTH_USER_ID"

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, "Bearer")
	if len(parts) != 2 {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// Authn resolves the access token into a user id on the request context.
// It does NOT terminate unauthenticated requests; handlers fail later via
// ResolveValidUser.
func Authn(verifier interface {
	ValidateToken(token string) (int64, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}

			userID, err := verifier.ValidateToken(token)
			if err != nil {
				// although it's a client error, we don't want to leak details
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyAuthUserID, userID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// AuthnBot guards the service endpoints only the bot collaborator may call.
// Unlike Authn it terminates the request on a bad token.
func AuthnBot(verifier interface {
	ValidateBotJWT(token string) error
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("unauthorized"), errorx.Authn), -1)
				return nil
			}

			if err := verifier.ValidateBotJWT(token); err != nil {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("unauthorized"), errorx.Authn), -1)
				return nil
			}

			return next(c)
		}
	}
}

// ResolveValidUser loads the authenticated user, rejects banned accounts and
// renews the activity mark consumed by the active-audience stats.
func ResolveValidUser(ctx context.Context, container *do.Injector) (*models.User, error) {
	userID, ok := ctx.Value(ctxKeyAuthUserID).(int64)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](container)
	if err != nil {
		return nil, err
	}

	user, err := serviceUser.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, errorx.Wrap(errors.New("account banned"), errorx.Authn)
	}

	if err := serviceUser.RenewLastActivity(ctx, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}
