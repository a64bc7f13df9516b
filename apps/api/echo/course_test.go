package echoapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mkala/shule/core/course"
	"github.com/mkala/shule/core/user"
	testutil "github.com/mkala/shule/tests"
)

func Test_courseApi_query(t *testing.T) {
	env := setup(t)

	student := testutil.CreateUser(
		t, env.usrRepo, "Hero", "Mukala", "hero@shule.cd", "STD001", "", user.RoleStudent, "10", true)

	math := testutil.CreateCourse(t, env.crsRepo, "Mathematics", "MATH10", "10", "A")
	phys := testutil.CreateCourse(t, env.crsRepo, "Physics", "PHY10", "10", "A")
	hist := testutil.CreateCourse(t, env.crsRepo, "History", "HIST9", "9", "")

	path := func(search, class string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if class != "" {
			v.Add("class", class)
		}
		return "/v1/courses?" + v.Encode()
	}

	token := getToken(t, student)

	tests := []httpTest{
		{name: "auth required", path: "/v1/courses", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "get all", path: "/v1/courses", token: token, wantData: marchallList(t, math, phys, hist)},
		{name: "search (unknown)", path: path("lol", ""), token: token, wantData: marchallList(t)},
		{name: "search by code", path: path("PHY", ""), token: token, wantData: marchallList(t, phys)},
		{name: "class=9", path: path("", "9"), token: token, wantData: marchallList(t, hist)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("retrieve", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, math)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+math.ID, token)
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/ghost", token)
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_courseApi_mutations(t *testing.T) {
	env := setup(t)

	teacher := testutil.CreateUser(
		t, env.usrRepo, "Prof", "Kalume", "prof@shule.cd", "TCH001", "", user.RoleTeacher, "", true)
	admin := testutil.CreateUser(
		t, env.usrRepo, "Admin", "Ilunga", "admin@shule.cd", "ADM001", "", user.RoleAdmin, "", true)

	newCourse := course.NewCourse{Name: "Mathematics", Code: "MATH10", Class: "10", Section: "A"}
	adminToken := getToken(t, admin)

	var created course.Course

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/courses",
			body: marchallObj(t, newCourse), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "admin required", method: http.MethodPost, path: "/v1/courses", token: getToken(t, teacher),
			body: marchallObj(t, newCourse), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "required fields", method: http.MethodPost, path: "/v1/courses", token: adminToken,
			body:     marchallObj(t, course.NewCourse{Section: "A"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echo.Map{
				"name": "this field is required", "code": "this field is required", "class": "this field is required",
			}),
		},
		{
			name: "created", method: http.MethodPost, path: "/v1/courses", token: adminToken,
			body: marchallObj(t, newCourse), wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if created.ID == "" {
					t.Error("failed! empty course ID")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("update", func(t *testing.T) {
		body := marchallObj(t, course.UpdateCourse{Name: "Advanced Mathematics"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/courses/"+created.ID, adminToken, body)
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var updated course.Course
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if updated.Name != "Advanced Mathematics" {
			t.Errorf("failed! name = %v", updated.Name)
		}
		if updated.Code != created.Code {
			t.Errorf("failed! code = %v; want untouched %v", updated.Code, created.Code)
		}
	})

	t.Run("delete does not cascade assignments", func(t *testing.T) {
		asg := user.Assignment{CourseID: created.ID, Class: "10", Section: "A"}
		teacher = testutil.AssignCourse(t, env.usrRepo, teacher, asg)

		req, rec := newAuthRequest(http.MethodDelete, "/v1/courses/"+created.ID, adminToken)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}

		// the dangling reference stays on the teacher
		usr, err := env.usrRepo.GetUserByID(teacher.ID)
		if err != nil {
			t.Fatalf("GetUserByID() failed: %v", err)
		}
		if len(usr.AssignedCourses) != 1 || usr.AssignedCourses[0].CourseID != created.ID {
			t.Errorf("failed! assignments = %+v", usr.AssignedCourses)
		}

		// and renders as the unknown course label
		courses, err := env.crsRepo.QueryAllCourses()
		if err != nil {
			t.Fatalf("QueryAllCourses() failed: %v", err)
		}
		if label := course.Label(courses, created.ID); label != course.UnknownCourseLabel {
			t.Errorf("failed! label = %v; want %v", label, course.UnknownCourseLabel)
		}
	})
}
