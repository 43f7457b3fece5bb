package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/soundtrackapp/soundtrack/core"
	"github.com/soundtrackapp/soundtrack/core/lesson"
	"github.com/soundtrackapp/soundtrack/core/repertoire"
	"github.com/soundtrackapp/soundtrack/core/skilllevel"
	"github.com/soundtrackapp/soundtrack/core/student"
	"github.com/soundtrackapp/soundtrack/core/teacher"
	"github.com/soundtrackapp/soundtrack/core/technique"
	emailsvc "github.com/soundtrackapp/soundtrack/services/email"
	inmemdb "github.com/soundtrackapp/soundtrack/storage/database/inmem"
)

var errUnauthorizedBody = httpErr{Error: "Unauthorized"}

func ctxb() context.Context { return context.Background() }

type testRepos struct {
	db         *inmemdb.DB
	teacher    teacher.Repository
	student    student.Repository
	skillLevel skilllevel.Repository
	technique  technique.Repository
	repertoire repertoire.Repository
	lesson     lesson.Repository
}

type testLogger struct{}

func (testLogger) Info(msg string, args ...interface{})             {}
func (testLogger) Error(msg string, err error, args ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{
		Env:             "TEST",
		Debug:           true,
		TestMode:        true,
		AppName:         "Soundtrack",
		SecretKey:       []byte("secret"),
		BcryptCost:      bcrypt.MinCost,
		FrontendBaseURL: "http://localhost:3000",
		DefaultFromEmail: mail.Address{
			Name:    "Soundtrack",
			Address: "noreply@localhost",
		},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			Host:               "localhost",
			Port:               "8000",
			JWTExpirationDelta: 10 * time.Minute,
		},
	}
}

func setup(t *testing.T) (Server, *testRepos, *core.Config) {
	t.Helper()

	conf := testConfig()
	db := inmemdb.NewDB()
	repos := &testRepos{
		db:         db,
		teacher:    inmemdb.NewTeacherRepository(db),
		student:    inmemdb.NewStudentRepository(db),
		skillLevel: inmemdb.NewSkillLevelRepository(db),
		technique:  inmemdb.NewTechniqueRepository(db),
		repertoire: inmemdb.NewRepertoireRepository(db),
		lesson:     inmemdb.NewLessonRepository(db),
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	validate, translator := core.NewValidator()
	teacher.RegisterValidators(validate, translator)

	app := NewServer(
		&Options{
			Conf:           conf,
			Logger:         testLogger{},
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
			TeacherSvc:     teacher.NewService(conf, repos.teacher, mailSvc),
			StudentSvc:     student.NewService(repos.student),
			SkillLevelSvc:  skilllevel.NewService(repos.skillLevel),
			TechniqueSvc:   technique.NewService(repos.technique),
			RepertoireSvc:  repertoire.NewService(repos.repertoire),
			LessonSvc:      lesson.NewService(repos.lesson),
		},
	)
	return app, repos, conf
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

func getToken(t *testing.T, conf *core.Config, tchr teacher.Teacher) string {
	t.Helper()
	token, err := newJWTAuth(conf).GenerateToken(tchr)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func createTeacher(t *testing.T, repo teacher.Repository, name, email, pwd string, isAdmin bool) teacher.Teacher {
	t.Helper()
	tchr := teacher.Teacher{
		Name:      name,
		Email:     email,
		IsAdmin:   isAdmin,
		DateAdded: time.Now().UTC(),
	}
	if pwd != "" {
		if err := tchr.SetPassword(pwd, bcrypt.MinCost); err != nil {
			t.Fatalf("createTeacher() failed: %v", err)
		}
	}
	tchr, err := repo.CreateTeacher(ctxb(), tchr)
	if err != nil {
		t.Fatalf("createTeacher() failed: %v", err)
	}
	return tchr
}

func createStudent(t *testing.T, repo student.Repository, name, email, teacherID string) student.Student {
	t.Helper()
	st, err := repo.CreateStudent(ctxb(), student.NewStudent{
		Name:      name,
		Email:     email,
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return st
}

func createTechnique(t *testing.T, repo technique.Repository, tonic, mode, typ, teacherID string) technique.Technique {
	t.Helper()
	tech, err := repo.CreateTechnique(ctxb(), technique.NewTechnique{
		Tonic:     tonic,
		Mode:      mode,
		Type:      typ,
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("createTechnique() failed: %v", err)
	}
	return tech
}

func createRepertoire(t *testing.T, repo repertoire.Repository, name, composer, genre, teacherID string) repertoire.Repertoire {
	t.Helper()
	rep, err := repo.CreateRepertoire(ctxb(), repertoire.NewRepertoire{
		Name:      name,
		Composer:  composer,
		Genre:     genre,
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("createRepertoire() failed: %v", err)
	}
	return rep
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
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
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.Bytes(), tt.wantData)
	}
}
