package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core/access"
	"github.com/mkala/shule/core/course"
	"github.com/mkala/shule/core/exam"
	"github.com/mkala/shule/core/user"
)

type examApi struct {
	userSvc   user.Service
	courseSvc course.Service
	svc       exam.Service
}

func registerExamAPI(
	g *echo.Group, jwt echo.MiddlewareFunc, userSvc user.Service, courseSvc course.Service, svc exam.Service,
) {
	api := examApi{userSvc: userSvc, courseSvc: courseSvc, svc: svc}

	eg := g.Group("/exams", jwt)

	teacher := requireRoute(userSvc, access.RouteTeacherDashboard)
	eg.POST("", api.submit, teacher)
	eg.GET("/roster", api.roster, teacher)

	staff := requireRoute(userSvc,
		access.RouteTeacherDashboard, access.RouteAdminDashboard, access.RouteAccountsDashboard)
	eg.GET("", api.retrieve, staff)
	eg.GET("/all", api.query, requireRoute(userSvc, access.RouteAdminDashboard, access.RouteAccountsDashboard))
}

func (api *examApi) submit(ctx echo.Context) error {
	var data exam.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsTeacher() && !usr.HasAssignment(data.Class, data.CourseID) {
		return errHttpForbidden
	}

	sheet, err := api.svc.Submit(data)
	if err != nil {
		return errors.Wrap(err, "submitting exam results")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *examApi) retrieve(ctx echo.Context) error {
	sel, err := bindSheetSelection(ctx)
	if err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsTeacher() && !usr.HasAssignment(sel.Class, sel.CourseID) {
		return errHttpForbidden
	}

	sheet, err := api.svc.Get(sel.Class, sel.CourseID, sel.Semester)
	if err != nil {
		if errors.Cause(err) == exam.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "retrieving exam sheet")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *examApi) query(ctx echo.Context) error {
	sheets, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying exam sheets")
	}
	if sheets == nil {
		sheets = []exam.Sheet{}
	}
	return ctx.JSON(http.StatusOK, sheets)
}

func (api *examApi) roster(ctx echo.Context) error {
	return classRoster(ctx, api.userSvc, api.courseSvc)
}
