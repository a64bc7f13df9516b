package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/mkala/shule/core"
	"github.com/mkala/shule/core/attendance"
	"github.com/mkala/shule/core/course"
	"github.com/mkala/shule/core/exam"
	"github.com/mkala/shule/core/user"
	emailsvc "github.com/mkala/shule/services/email"
	inmemdb "github.com/mkala/shule/storage/database/inmem"
)

var (
	initTestOnce sync.Once

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

type testEnv struct {
	server  Server
	conf    *core.Config
	usrRepo user.Repository
	crsRepo course.Repository
	attRepo attendance.Repository
	exmRepo exam.Repository
	usrSvc  user.Service
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{
		TestMode:                  true,
		Env:                       "TEST",
		AppName:                   "Shule",
		SecretKey:                 "secret",
		FrontendBaseURL:           "http://localhost:8080",
		DefaultFromEmail:          "noreply@localhost",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

// setup builds a fresh server over in-memory repositories. Each test gets its
// own store; validators, templates and the password list are shared.
func setup(t *testing.T) *testEnv {
	conf := testConfig()

	initTestOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		translator, _ := uni.GetTranslator("en")
		validate := validator.New()
		core.InitValidators(validate, translator)
		user.InitValidators(validate, translator)
		core.ParseEmailTemplates(conf, nopLogger{})
		user.LoadCommonPasswords(nopLogger{})
	})

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	usrRepo := inmemdb.NewUserRepository(db)
	crsRepo := inmemdb.NewCourseRepository(db)
	attRepo := inmemdb.NewAttendanceRepository(db)
	exmRepo := inmemdb.NewExamRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(usrRepo, mailSvc, conf)

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         nopLogger{},
		UserSvc:        usrSvc,
		CourseSvc:      course.NewService(crsRepo),
		AttendanceSvc:  attendance.NewService(attRepo),
		ExamSvc:        exam.NewService(exmRepo),
		DisableReqLogs: true,
	})

	return &testEnv{
		server:  server,
		conf:    conf,
		usrRepo: usrRepo,
		crsRepo: crsRepo,
		attRepo: attRepo,
		exmRepo: exmRepo,
		usrSvc:  usrSvc,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
