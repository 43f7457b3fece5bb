package echoapi

import (
	"github.com/labstack/echo/v4"
)

// adminMiddleware only lets admins through. Failures are indistinguishable
// from a missing login.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsAdmin {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}

// correctTeacherOrAdminMiddleware authorizes admins, and callers whose own id
// matches the teacher id named by the route param or the query parameter.
// When neither names a target, the request passes and the handler pins its
// scope to the caller.
func correctTeacherOrAdminMiddleware(param, query string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			if param != "" {
				if id := ctx.Param(param); id != "" {
					if id != claims.Subject {
						return errUnauthorized
					}
					return next(ctx)
				}
			}
			if query != "" {
				if id := ctx.QueryParam(query); id != "" {
					if id != claims.Subject {
						return errUnauthorized
					}
					return next(ctx)
				}
			}
			return next(ctx)
		}
	}
}
