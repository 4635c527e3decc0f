package users

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-users/middleware/jwtware"
)

// ProtectedRoute builds the bearer-token gate for authenticated routes.
// The token service rejects refresh tokens here, only access tokens pass.
func ProtectedRoute(cfg Config, tokens TokenService, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = DefaultAuthErrorHandler(defLogger{})
	}

	return jwtware.New(jwtware.Config{
		ErrorHandler: errorHandler,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		TokenValidator: jwtValidatorAdapter{
			validator: tokens,
		},
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(AuthClaims); ok {
				return WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})
}

// DefaultAuthErrorHandler renders token failures as JSON 401s
func DefaultAuthErrorHandler(logger Logger) func(router.Context, error) error {
	if logger == nil {
		logger = defLogger{}
	}

	return func(ctx router.Context, err error) error {
		var richErr *goerrors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if IsMalformedError(err) {
			richErr = ErrTokenMalformed
		} else {
			richErr = ErrUnauthenticated
		}

		logger.Info("authentication rejected",
			"error", richErr.Message,
			"text_code", richErr.TextCode,
			"path", ctx.OriginalURL(),
		)

		return ctx.JSON(http.StatusUnauthorized, errorBody(richErr))
	}
}

// jwtValidatorAdapter bridges the package TokenService into the
// middleware's narrower validator interface.
type jwtValidatorAdapter struct {
	validator TokenValidator
}

func (a jwtValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	if a.validator == nil {
		return nil, ErrTokenMalformed
	}

	claims, err := a.validator.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
