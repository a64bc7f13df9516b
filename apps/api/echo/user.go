package echoapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/mkala/shule/core"
	"github.com/mkala/shule/core/access"
	"github.com/mkala/shule/core/course"
	"github.com/mkala/shule/core/user"
)

var (
	errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")
	errNoPermsToSetRole = "not enough rights to set this role"
)

type userApi struct {
	svc       user.Service
	courseSvc course.Service
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.Service, courseSvc course.Service) {
	api := userApi{svc: svc, courseSvc: courseSvc}

	ug := g.Group("/users")

	// un-authed endpoints
	// TODO: rate limit `/login`, `/password-reset` & `/password-reset-confirm`
	ug.POST("/login", api.login)
	ug.POST("/password-reset", api.resetPassword)
	ug.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/register", api.create, requireRoute(svc, access.RouteRegister))
	ag.GET("", api.query, requireRoute(svc, access.RouteAdminDashboard))
	ag.DELETE("", api.destroyMultiple, requireRoute(svc, access.RouteAdminDashboard))
	ag.GET("/roles", api.queryRoles, requireRoute(svc, access.RouteAdminDashboard))
	ag.POST("/assign-course", api.assignCourse, requireRoute(svc, access.RouteAdminDashboard))

	// detail endpoints
	dg := ag.Group("/:id", ctxUserOrAdminMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.GET("/assigned-courses", api.assignedCourses)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, requireRoute(svc, access.RouteAdminDashboard))
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(data.Identifier, data.Password, api.svc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	// the landing route is derived from the freshly resolved role
	policy := access.Resolve(true, claims.Role)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Dashboard: policy.Default})
}

func (api *userApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.RequestPasswordReset(data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *userApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)
	filter.Ordering = ordering.Orderings

	users, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}

	ctxUsr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() {
		// `IsActive`, `Role`, `IDNumber` and `Email` can only be changed by admin
		if data.IsActive != nil || data.Role != "" || data.IDNumber != "" || data.Email != "" {
			return errHttpForbidden
		}
	}

	if err := data.Validate(usr, api.svc); err != nil {
		return err
	}

	// role changes are admin-only; an admin cannot strip their own role
	if data.Role != "" && usr.ID == ctxUsr.ID && data.Role != ctxUsr.Role {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}

	usr, err = api.svc.Update(usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}

	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	// Say No to Suicide! ctxUser cannot delete themselves
	ctxUsr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.ID == ctxUsr.ID {
		return errHttpForbidden
	}

	if err := api.svc.Delete(usr.ID); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	// Say No to Suicide! ctxUser cannot delete themselves
	ctxUsr, err := getContextUser(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	sort.Strings(query.IDs)
	if i := sort.SearchStrings(query.IDs, ctxUsr.ID); i < len(query.IDs) {
		if match := query.IDs[i]; ctxUsr.ID == match {
			return errHttpForbidden
		}
	}

	if err := api.svc.Delete(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// assignedCourses renders the user's assignments with their course names.
// An assignment pointing at a deleted course still renders, labeled with
// course.UnknownCourseLabel.
func (api *userApi) assignedCourses(ctx echo.Context) error {
	usr, ok := ctx.Get("object").(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	courses, err := api.courseSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	resp := make([]AssignedCourseResponse, 0, len(usr.AssignedCourses))
	for _, asg := range usr.AssignedCourses {
		resp = append(resp, AssignedCourseResponse{
			CourseID:    asg.CourseID,
			Class:       asg.Class,
			Section:     asg.Section,
			CourseLabel: course.Label(courses, asg.CourseID),
		})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *userApi) assignCourse(ctx echo.Context) error {
	var data AssignCourseRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignCourseRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	users, err := api.svc.AssignCourse(data.Assignment, data.UserIDs...)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "assigning course")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

type (
	// LoginRequest accepts either an email or an ID number as identifier.
	LoginRequest struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token     string       `json:"token"`
		Dashboard access.Route `json:"dashboard,omitempty"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}

	AssignCourseRequest struct {
		UserIDs    []string        `json:"user_ids" validate:"required,min=1"`
		Assignment user.Assignment `json:"assignment"`
	}

	AssignedCourseResponse struct {
		CourseID    string `json:"course_id"`
		Class       string `json:"class"`
		Section     string `json:"section"`
		CourseLabel string `json:"course_label"`
	}
)

func (lr *LoginRequest) Validate() error {
	// emails are stored lowercased, ID numbers keep their case
	lr.Identifier = core.CleanString(lr.Identifier, strings.ContainsRune(lr.Identifier, '@'))
	return core.Validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}

func (ar *AssignCourseRequest) Validate() error {
	ar.Assignment.CourseID = core.CleanString(ar.Assignment.CourseID)
	ar.Assignment.Class = core.CleanString(ar.Assignment.Class)
	ar.Assignment.Section = core.CleanString(ar.Assignment.Section)
	if ar.Assignment.CourseID == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "assignment", Error: "course is required"})
	}
	return core.Validate.Struct(ar)
}
