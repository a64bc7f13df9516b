package echoapi

import (
	"net/http"
	"testing"

	"github.com/mkala/shule/core/access"
	"github.com/mkala/shule/core/user"
	testutil "github.com/mkala/shule/tests"
)

func Test_dashboardApi_retrieve(t *testing.T) {
	env := setup(t)

	student := testutil.CreateUser(
		t, env.usrRepo, "Hero", "Mukala", "hero@shule.cd", "STD001", "", user.RoleStudent, "10", true)
	teacher := testutil.CreateUser(
		t, env.usrRepo, "Prof", "Kalume", "prof@shule.cd", "TCH001", "", user.RoleTeacher, "", true)
	admin := testutil.CreateUser(
		t, env.usrRepo, "Admin", "Ilunga", "admin@shule.cd", "ADM001", "", user.RoleAdmin, "", true)
	accounts := testutil.CreateUser(
		t, env.usrRepo, "Compta", "Mbuyi", "compta@shule.cd", "ACC001", "", user.RoleAccounts, "", true)
	norole := testutil.CreateUser(
		t, env.usrRepo, "No", "Role", "norole@shule.cd", "NRL001", "", "", "", true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "student policy", token: getToken(t, student), wantCode: http.StatusOK,
			wantData: marchallObj(t, access.Resolve(true, user.RoleStudent)),
		},
		{
			name: "teacher policy", token: getToken(t, teacher), wantCode: http.StatusOK,
			wantData: marchallObj(t, access.Resolve(true, user.RoleTeacher)),
		},
		{
			name: "admin policy", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, access.Resolve(true, user.RoleAdmin)),
		},
		{
			name: "accounts policy", token: getToken(t, accounts), wantCode: http.StatusOK,
			wantData: marchallObj(t, access.Resolve(true, user.RoleAccounts)),
		},
		{
			name: "unrecognized role gets an empty policy", token: getToken(t, norole), wantCode: http.StatusOK,
			wantData: marchallObj(t, access.Resolve(true, "")),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/dashboard"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// a role change takes effect on the next request without a new token
	t.Run("role re-resolved from store", func(t *testing.T) {
		token := getToken(t, student)
		if _, err := env.usrRepo.UpdateUser(user.User{ID: student.ID, Role: user.RoleAccounts}, nil); err != nil {
			t.Fatalf("UpdateUser() failed: %v", err)
		}

		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, access.Resolve(true, user.RoleAccounts)),
		}
		req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard", token)
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
