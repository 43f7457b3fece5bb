package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core/teacher"
	emailsvc "github.com/soundtrackapp/soundtrack/services/email"
)

func Test_teacherAPI_auth(t *testing.T) {
	app, repos, _ := setup(t)

	createTeacher(t, repos.teacher, "Amy", "amy@test.com", "s3cr3t", false)

	tests := []httpTest{
		{
			name: "register", method: http.MethodPost, path: "/auth/register",
			body:     []byte(`{"email": "ben@test.com", "password": "My-S3cr3t", "name": "Ben"}`),
			wantCode: http.StatusCreated,
		},
		{
			name: "register: duplicate email", method: http.MethodPost, path: "/auth/register",
			body:     []byte(`{"email": "amy@test.com", "password": "My-S3cr3t", "name": "Amy Again"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "a teacher with this email already exists"}),
		},
		{
			name: "register: missing fields", method: http.MethodPost, path: "/auth/register",
			body:     []byte(`{"email": "care@test.com"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "login", method: http.MethodPost, path: "/auth/token",
			body: []byte(`{"email": "amy@test.com", "password": "s3cr3t"}`),
		},
		{
			name: "login: email is case-insensitive", method: http.MethodPost, path: "/auth/token",
			body: []byte(`{"email": "AMY@Test.Com", "password": "s3cr3t"}`),
		},
		{
			name: "login: wrong password", method: http.MethodPost, path: "/auth/token",
			body:     []byte(`{"email": "amy@test.com", "password": "nope"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "Invalid email or password"}),
		},
		{
			name: "login: unknown email", method: http.MethodPost, path: "/auth/token",
			body:     []byte(`{"email": "who@test.com", "password": "s3cr3t"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "Invalid email or password"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantData == nil && rec.Code < http.StatusBadRequest {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a token in the response")
				}
			}
		})
	}
}

func Test_teacherAPI_query(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	root := createTeacher(t, repos.teacher, "Root", "root@test.com", "", true)

	tests := []httpTest{
		{
			name: "auth required", path: "/teachers",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "admin required", path: "/teachers", token: getToken(t, conf, amy),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "get all", path: "/teachers", token: getToken(t, conf, root),
			wantData: marchallObj(t, echo.Map{"teachers": []teacher.Teacher{amy, root}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_teacherAPI_detail(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	ben := createTeacher(t, repos.teacher, "Ben", "ben@test.com", "", false)
	root := createTeacher(t, repos.teacher, "Root", "root@test.com", "", true)

	amyToken := getToken(t, conf, amy)
	tech := createTechnique(t, repos.technique, "C", "major", "scale", amy.ID)

	tests := []httpTest{
		{
			name: "retrieve: other teacher", method: http.MethodGet, path: "/teachers/" + ben.ID, token: amyToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "retrieve: self", method: http.MethodGet, path: "/teachers/" + amy.ID, token: amyToken,
			wantData: marchallObj(t, echo.Map{"teacher": amy}),
		},
		{
			name: "retrieve: admin", method: http.MethodGet, path: "/teachers/" + amy.ID, token: getToken(t, conf, root),
			wantData: marchallObj(t, echo.Map{"teacher": amy}),
		},
		{
			name: "update: self cannot self-promote", method: http.MethodPatch, path: "/teachers/" + amy.ID, token: amyToken,
			body:     []byte(`{"isAdmin": true}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "update: self", method: http.MethodPatch, path: "/teachers/" + amy.ID, token: amyToken,
			body: []byte(`{"description": "Violin teacher"}`),
		},
		{
			name: "lessons: empty", method: http.MethodGet, path: "/teachers/" + amy.ID + "/lessons", token: amyToken,
			wantData: marchallObj(t, echo.Map{"lessons": []teacher.Lesson{}}),
		},
		{
			name: "lessons: daysAgo must be a number", method: http.MethodGet,
			path: "/teachers/" + amy.ID + "/lessons?daysAgo=lol", token: amyToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "techniques", method: http.MethodGet, path: "/teachers/" + amy.ID + "/techniques", token: amyToken,
			wantData: marchallObj(t, echo.Map{"techniques": []interface{}{tech}}),
		},
		{
			name: "delete: other teacher", method: http.MethodDelete, path: "/teachers/" + amy.ID, token: getToken(t, conf, ben),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "delete: self", method: http.MethodDelete, path: "/teachers/" + ben.ID, token: getToken(t, conf, ben),
			wantData: marchallObj(t, echo.Map{"deleted": ben.ID}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_teacherAPI_passwordReset(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "0ld-s3cr3t", false)
	sentBefore := len(emailsvc.SentMessages)

	t.Run("request: unknown email gets the same answer", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/teachers/password-reset", []byte(`{"email": "who@test.com"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		if got := len(emailsvc.SentMessages); got != sentBefore {
			t.Errorf("sent messages = %d; want %d", got, sentBefore)
		}
	})

	t.Run("request: known email", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/teachers/password-reset", []byte(`{"email": "amy@test.com"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		if got := len(emailsvc.SentMessages); got != sentBefore+1 {
			t.Fatalf("sent messages = %d; want %d", got, sentBefore+1)
		}
		msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
		if !strings.Contains(msg.TextContent, "password-reset?uid=") {
			t.Errorf("expected a reset link in %q", msg.TextContent)
		}
	})

	t.Run("confirm", func(t *testing.T) {
		token, err := teacher.MakeToken(conf, amy)
		if err != nil {
			t.Fatalf("MakeToken() failed: %v", err)
		}
		body := marchallObj(t, teacher.ResetTeacherPassword{
			Token:           token,
			UID:             teacher.EncodeUID(amy),
			Password:        "n3w-s3cr3t",
			PasswordConfirm: "n3w-s3cr3t",
		})
		req, rec := newRequest(http.MethodPost, "/teachers/password-reset-confirm", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusOK, rec.Body.String())
		}

		// old password no longer works
		req, rec = newRequest(http.MethodPost, "/auth/token", []byte(`{"email": "amy@test.com", "password": "0ld-s3cr3t"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("old password: code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}

		req, rec = newRequest(http.MethodPost, "/auth/token", []byte(`{"email": "amy@test.com", "password": "n3w-s3cr3t"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("new password: code = %v; want %v; body = %s", rec.Code, http.StatusOK, rec.Body.String())
		}
	})
}
