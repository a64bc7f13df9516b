package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mkala/shule/core/exam"
	"github.com/mkala/shule/core/user"
	testutil "github.com/mkala/shule/tests"
)

func Test_examApi_submit(t *testing.T) {
	env := setup(t)

	math := testutil.CreateCourse(t, env.crsRepo, "Mathematics", "MATH10", "10", "A")
	hero := testutil.CreateUser(
		t, env.usrRepo, "Hero", "Mukala", "hero@shule.cd", "STD001", "", user.RoleStudent, "10", true)
	jenny := testutil.CreateUser(
		t, env.usrRepo, "Jenny", "Kabila", "jenny@shule.cd", "STD002", "", user.RoleStudent, "10", true)
	teacher := testutil.CreateUser(
		t, env.usrRepo, "Prof", "Kalume", "prof@shule.cd", "TCH001", "", user.RoleTeacher, "", true)
	teacher = testutil.AssignCourse(t, env.usrRepo, teacher, user.Assignment{CourseID: math.ID, Class: "10", Section: "A"})
	outsider := testutil.CreateUser(
		t, env.usrRepo, "Autre", "Prof", "autre@shule.cd", "TCH002", "", user.RoleTeacher, "", true)

	submission := exam.Submission{
		Class: "10", CourseID: math.ID, Semester: "2026-1",
		Scores: exam.ScoreMap{hero.ID: 14.5},
	}

	tests := []httpTest{
		{
			name: "auth required", wantCode: http.StatusUnauthorized,
			body: marchallObj(t, submission), wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "teacher required", token: getToken(t, hero), wantCode: http.StatusForbidden,
			body: marchallObj(t, submission), wantData: marchallObj(t, errForbidden),
		},
		{
			name: "unassigned teacher rejected", token: getToken(t, outsider), wantCode: http.StatusForbidden,
			body: marchallObj(t, submission), wantData: marchallObj(t, errForbidden),
		},
		{name: "submitted", token: getToken(t, teacher), wantCode: http.StatusOK, body: marchallObj(t, submission)},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/exams"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("resubmission merges scores", func(t *testing.T) {
		body := marchallObj(t, exam.Submission{
			Class: "10", CourseID: math.ID, Semester: "2026-1",
			Scores: exam.ScoreMap{jenny.ID: 17},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/exams", getToken(t, teacher), body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}

		var sheet exam.Sheet
		if err := json.Unmarshal(rec.Body.Bytes(), &sheet); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if len(sheet.Scores) != 2 {
			t.Errorf("failed! scores = %v; want 2", len(sheet.Scores))
		}
		if score := sheet.Scores[hero.ID]; score != 14.5 {
			t.Errorf("failed! earlier score lost: %v", sheet.Scores)
		}
	})

	t.Run("accounts reads the sheet", func(t *testing.T) {
		accounts := testutil.CreateUser(
			t, env.usrRepo, "Compta", "Mbuyi", "compta@shule.cd", "ACC001", "", user.RoleAccounts, "", true)

		req, rec := newAuthRequest(
			http.MethodGet, sheetPath("/v1/exams", "10", math.ID, "2026-1"), getToken(t, accounts))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %v", rec.Code, rec.Body.String())
		}
		var sheet exam.Sheet
		if err := json.Unmarshal(rec.Body.Bytes(), &sheet); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if want := exam.SheetID("10", math.ID, "2026-1"); sheet.ID != want {
			t.Errorf("failed! sheet ID = %v; want %v", sheet.ID, want)
		}
	})
}
