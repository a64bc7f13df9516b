package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core"
	"github.com/mkala/shule/core/access"
	"github.com/mkala/shule/core/attendance"
	"github.com/mkala/shule/core/course"
	"github.com/mkala/shule/core/user"
)

type attendanceApi struct {
	userSvc   user.Service
	courseSvc course.Service
	svc       attendance.Service
}

func registerAttendanceAPI(
	g *echo.Group, jwt echo.MiddlewareFunc, userSvc user.Service, courseSvc course.Service, svc attendance.Service,
) {
	api := attendanceApi{userSvc: userSvc, courseSvc: courseSvc, svc: svc}

	ag := g.Group("/attendance", jwt)

	teacher := requireRoute(userSvc, access.RouteTeacherDashboard)
	ag.POST("", api.submit, teacher)
	ag.GET("/roster", api.roster, teacher)

	// sheets are readable by staff roles, not by students
	staff := requireRoute(userSvc,
		access.RouteTeacherDashboard, access.RouteAdminDashboard, access.RouteAccountsDashboard)
	ag.GET("", api.retrieve, staff)
	ag.GET("/all", api.query, requireRoute(userSvc, access.RouteAdminDashboard, access.RouteAccountsDashboard))
}

func (api *attendanceApi) submit(ctx echo.Context) error {
	var data attendance.Submission
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
		return errors.Wrap(err, "submitting attendance")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
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
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "retrieving attendance sheet")
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	sheets, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying attendance sheets")
	}
	if sheets == nil {
		sheets = []attendance.Sheet{}
	}
	return ctx.JSON(http.StatusOK, sheets)
}

func (api *attendanceApi) roster(ctx echo.Context) error {
	return classRoster(ctx, api.userSvc, api.courseSvc)
}

type (
	// SheetSelection identifies one sheet by its composite key parts.
	SheetSelection struct {
		Class    string `query:"class" validate:"required"`
		CourseID string `query:"course" validate:"required"`
		Semester string `query:"semester" validate:"required"`
	}

	RosterResponse struct {
		Class       string      `json:"class"`
		CourseID    string      `json:"course_id"`
		CourseLabel string      `json:"course_label"`
		Students    []user.User `json:"students"`
	}
)

func bindSheetSelection(ctx echo.Context) (SheetSelection, error) {
	var sel SheetSelection
	if err := ctx.Bind(&sel); err != nil {
		return sel, errors.Wrap(err, "binding to SheetSelection")
	}
	sel.Class = core.CleanString(sel.Class)
	sel.CourseID = core.CleanString(sel.CourseID)
	sel.Semester = core.CleanString(sel.Semester)
	if err := core.Validate.Struct(sel); err != nil {
		return sel, err
	}
	return sel, nil
}

// classRoster serves the students a teacher may mark for a (class, course)
// selection. Shared by the attendance and exam endpoints; the eligible set is
// recomputed on every call.
func classRoster(ctx echo.Context, userSvc user.Service, courseSvc course.Service) error {
	class := core.CleanString(ctx.QueryParam("class"))
	courseID := core.CleanString(ctx.QueryParam("course"))
	if class == "" || courseID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "class", Error: "class and course are required"})
	}

	teacher, err := getContextUser(ctx, userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	students, err := userSvc.Filter(user.QueryFilter{Roles: []string{user.RoleStudent}, Class: class})
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	eligible := user.EligibleStudents(teacher, students, class, courseID)
	if eligible == nil {
		return errHttpForbidden
	}

	courses, err := courseSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	return ctx.JSON(http.StatusOK, RosterResponse{
		Class:       class,
		CourseID:    courseID,
		CourseLabel: course.Label(courses, courseID),
		Students:    eligible,
	})
}
