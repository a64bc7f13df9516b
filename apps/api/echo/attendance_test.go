package echoapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mkala/shule/core/attendance"
	"github.com/mkala/shule/core/user"
	testutil "github.com/mkala/shule/tests"
)

func sheetPath(base, class, courseID, semester string) string {
	v := make(url.Values)
	if class != "" {
		v.Add("class", class)
	}
	if courseID != "" {
		v.Add("course", courseID)
	}
	if semester != "" {
		v.Add("semester", semester)
	}
	return base + "?" + v.Encode()
}

func Test_attendanceApi_submit(t *testing.T) {
	env := setup(t)

	math := testutil.CreateCourse(t, env.crsRepo, "Mathematics", "MATH10", "10", "A")
	student := testutil.CreateUser(
		t, env.usrRepo, "Hero", "Mukala", "hero@shule.cd", "STD001", "", user.RoleStudent, "10", true)
	teacher := testutil.CreateUser(
		t, env.usrRepo, "Prof", "Kalume", "prof@shule.cd", "TCH001", "", user.RoleTeacher, "", true)
	teacher = testutil.AssignCourse(t, env.usrRepo, teacher, user.Assignment{CourseID: math.ID, Class: "10", Section: "A"})
	outsider := testutil.CreateUser(
		t, env.usrRepo, "Autre", "Prof", "autre@shule.cd", "TCH002", "", user.RoleTeacher, "", true)

	submission := attendance.Submission{
		Class: "10", CourseID: math.ID, Semester: "2026-1",
		Entries: attendance.EntryMap{student.ID: true},
	}

	tests := []httpTest{
		{
			name: "auth required", wantCode: http.StatusUnauthorized,
			body: marchallObj(t, submission), wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "teacher required", token: getToken(t, student), wantCode: http.StatusForbidden,
			body: marchallObj(t, submission), wantData: marchallObj(t, errForbidden),
		},
		{
			name: "missing key parts never reach the store", token: getToken(t, teacher), wantCode: http.StatusBadRequest,
			body: marchallObj(t, attendance.Submission{Entries: attendance.EntryMap{student.ID: true}}),
			wantData: marchallObj(t, echo.Map{
				"class": "this field is required", "course_id": "this field is required", "semester": "this field is required",
			}),
		},
		{
			name: "unassigned teacher rejected", token: getToken(t, outsider), wantCode: http.StatusForbidden,
			body: marchallObj(t, submission), wantData: marchallObj(t, errForbidden),
		},
		{
			name: "assigned class mismatch rejected", token: getToken(t, teacher), wantCode: http.StatusForbidden,
			body: marchallObj(t, attendance.Submission{
				Class: "9", CourseID: math.ID, Semester: "2026-1",
				Entries: attendance.EntryMap{student.ID: true},
			}),
			wantData: marchallObj(t, errForbidden),
		},
		{name: "submitted", token: getToken(t, teacher), wantCode: http.StatusOK, body: marchallObj(t, submission)},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/attendance"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var sheet attendance.Sheet
				if err := json.Unmarshal(rec.Body.Bytes(), &sheet); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if want := attendance.SheetID("10", math.ID, "2026-1"); sheet.ID != want {
					t.Errorf("failed! sheet ID = %v; want %v", sheet.ID, want)
				}
				return
			}
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusBadRequest {
				sheets, err := env.attRepo.QueryAllSheets()
				if err != nil {
					t.Fatalf("QueryAllSheets() failed! err %v", err)
				}
				if len(sheets) != 0 {
					t.Errorf("failed! rejected submission reached the store: %v", sheets)
				}
			}
		})
	}

	// a second write for the same key merges entries instead of replacing them
	t.Run("resubmission merges entries", func(t *testing.T) {
		other := testutil.CreateUser(
			t, env.usrRepo, "Jenny", "Kabila", "jenny@shule.cd", "STD002", "", user.RoleStudent, "10", true)

		body := marchallObj(t, attendance.Submission{
			Class: "10", CourseID: math.ID, Semester: "2026-1",
			Entries: attendance.EntryMap{other.ID: false},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, teacher), body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}

		var sheet attendance.Sheet
		if err := json.Unmarshal(rec.Body.Bytes(), &sheet); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(sheet.Entries) != 2 {
			t.Errorf("failed! entries = %v; want 2", len(sheet.Entries))
		}
		if present, ok := sheet.Entries[student.ID]; !ok || !present {
			t.Errorf("failed! earlier entry lost: %v", sheet.Entries)
		}
		if present, ok := sheet.Entries[other.ID]; !ok || present {
			t.Errorf("failed! new entry wrong: %v", sheet.Entries)
		}
	})
}

func Test_attendanceApi_retrieve(t *testing.T) {
	env := setup(t)

	math := testutil.CreateCourse(t, env.crsRepo, "Mathematics", "MATH10", "10", "A")
	student := testutil.CreateUser(
		t, env.usrRepo, "Hero", "Mukala", "hero@shule.cd", "STD001", "", user.RoleStudent, "10", true)
	teacher := testutil.CreateUser(
		t, env.usrRepo, "Prof", "Kalume", "prof@shule.cd", "TCH001", "", user.RoleTeacher, "", true)
	teacher = testutil.AssignCourse(t, env.usrRepo, teacher, user.Assignment{CourseID: math.ID, Class: "10", Section: "A"})
	accounts := testutil.CreateUser(
		t, env.usrRepo, "Compta", "Mbuyi", "compta@shule.cd", "ACC001", "", user.RoleAccounts, "", true)

	sheet := testutil.CreateAttendanceSheet(
		t, env.attRepo, "10", math.ID, "2026-1", attendance.EntryMap{student.ID: true})

	tests := []httpTest{
		{
			name: "auth required", path: sheetPath("/v1/attendance", "10", math.ID, "2026-1"),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "students cannot read sheets", path: sheetPath("/v1/attendance", "10", math.ID, "2026-1"),
			token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "key parts required", path: sheetPath("/v1/attendance", "10", math.ID, ""),
			token: getToken(t, teacher), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echo.Map{"semester": "this field is required"}),
		},
		{
			name: "assigned teacher reads", path: sheetPath("/v1/attendance", "10", math.ID, "2026-1"),
			token: getToken(t, teacher), wantCode: http.StatusOK, wantData: marchallObj(t, sheet),
		},
		{
			name: "accounts reads", path: sheetPath("/v1/attendance", "10", math.ID, "2026-1"),
			token: getToken(t, accounts), wantCode: http.StatusOK, wantData: marchallObj(t, sheet),
		},
		{
			name: "unknown sheet", path: sheetPath("/v1/attendance", "10", math.ID, "2026-2"),
			token: getToken(t, teacher), wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_roster(t *testing.T) {
	env := setup(t)

	math := testutil.CreateCourse(t, env.crsRepo, "Mathematics", "MATH10", "10", "A")
	hero := testutil.CreateUser(
		t, env.usrRepo, "Hero", "Mukala", "hero@shule.cd", "STD001", "", user.RoleStudent, "10", true)
	jenny := testutil.CreateUser(
		t, env.usrRepo, "Jenny", "Kabila", "jenny@shule.cd", "STD002", "", user.RoleStudent, "10", true)
	testutil.CreateUser(
		t, env.usrRepo, "Neuf", "Mbala", "neuf@shule.cd", "STD003", "", user.RoleStudent, "9", true)
	teacher := testutil.CreateUser(
		t, env.usrRepo, "Prof", "Kalume", "prof@shule.cd", "TCH001", "", user.RoleTeacher, "", true)
	teacher = testutil.AssignCourse(t, env.usrRepo, teacher, user.Assignment{CourseID: math.ID, Class: "10", Section: "A"})
	outsider := testutil.CreateUser(
		t, env.usrRepo, "Autre", "Prof", "autre@shule.cd", "TCH002", "", user.RoleTeacher, "", true)

	tests := []httpTest{
		{
			name: "auth required", path: sheetPath("/v1/attendance/roster", "10", math.ID, ""),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "teacher required", path: sheetPath("/v1/attendance/roster", "10", math.ID, ""),
			token: getToken(t, hero), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "selection required", path: "/v1/attendance/roster",
			token: getToken(t, teacher), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echo.Map{"class": "class and course are required"}),
		},
		{
			name: "unassigned teacher gets nothing", path: sheetPath("/v1/attendance/roster", "10", math.ID, ""),
			token: getToken(t, outsider), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "teacher not assigned to this class", path: sheetPath("/v1/attendance/roster", "9", math.ID, ""),
			token: getToken(t, teacher), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "assigned teacher gets class students", path: sheetPath("/v1/attendance/roster", "10", math.ID, ""),
			token: getToken(t, teacher), wantCode: http.StatusOK,
			wantData: marchallObj(t, RosterResponse{
				Class: "10", CourseID: math.ID, CourseLabel: math.Name, Students: []user.User{hero, jenny},
			}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("deleted course still yields the roster with a fallback label", func(t *testing.T) {
		if err := env.crsRepo.DeleteCoursesByID(math.ID); err != nil {
			t.Fatalf("DeleteCoursesByID() failed: %v", err)
		}

		req, rec := newAuthRequest(http.MethodGet, sheetPath("/v1/attendance/roster", "10", math.ID, ""), getToken(t, teacher))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var resp RosterResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if resp.CourseLabel != "Unknown Course" {
			t.Errorf("failed! label = %v; want Unknown Course", resp.CourseLabel)
		}
		if len(resp.Students) != 2 {
			t.Errorf("failed! students = %v; want 2", len(resp.Students))
		}
	})
}
