package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core/access"
	"github.com/mkala/shule/core/user"
)

// requireRoute gates a handler on the access policy: the request passes if
// the policy computed for the caller's role allows any of the given routes.
// The role is re-resolved from the store on every request, never trusted
// from the token.
func requireRoute(svc user.Service, routes ...access.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			policy := access.Resolve(true, usr.Role)
			for _, route := range routes {
				if policy.Allows(route) {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

// ctxUserOrAdminMiddleware restricts a detail endpoint to the user
// themselves or an admin, and stashes the target user in the context.
func ctxUserOrAdminMiddleware(svc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			if ctx.Param("id") == ctxUsr.ID || ctxUsr.IsAdmin() {
				if usr, err := svc.GetByID(ctx.Param("id")); err == nil {
					ctx.Set("object", usr)
					return next(ctx)
				} else if errors.Cause(err) != user.ErrNotFound {
					return errors.Wrap(err, "finding user by ID")
				}
			}
			return errHttpNotFound
		}
	}
}
