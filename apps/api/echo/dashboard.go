package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core/access"
	"github.com/mkala/shule/core/user"
)

type dashboardApi struct {
	svc user.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service) {
	api := dashboardApi{svc: svc}

	g.GET("/dashboard", api.retrieve, jwt)
}

// retrieve returns the routing policy for the requesting user. The role is
// resolved from the store on every call so a role change takes effect without
// re-login.
func (api *dashboardApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, access.Resolve(true, usr.Role))
}
