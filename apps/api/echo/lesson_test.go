package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core/lesson"
	"github.com/soundtrackapp/soundtrack/core/student"
)

func Test_lessonAPI(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	ben := createTeacher(t, repos.teacher, "Ben", "ben@test.com", "", false)

	amyToken := getToken(t, conf, amy)
	benToken := getToken(t, conf, ben)

	alice := createStudent(t, repos.student, "Alice", "alice@test.com", amy.ID)
	scale := createTechnique(t, repos.technique, "C", "major", "scale", amy.ID)

	if _, err := repos.student.AssignTechnique(ctxb(), alice.ID, scale.ID, nil); err != nil {
		t.Fatalf("AssignTechnique() failed: %v", err)
	}

	var created lesson.Lesson

	t.Run("create defaults to the caller", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"studentId": %d, "notes": "worked on intonation"}`, alice.ID))
		req, rec := newAuthRequest(http.MethodPost, "/lessons", amyToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var resp struct {
			Lesson lesson.Lesson `json:"lesson"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if resp.Lesson.TeacherID.String != amy.ID {
			t.Errorf("TeacherID = %q; want %q", resp.Lesson.TeacherID.String, amy.ID)
		}
		if resp.Lesson.StudentName != "Alice" {
			t.Errorf("StudentName = %q; want %q", resp.Lesson.StudentName, "Alice")
		}
		created = resp.Lesson
	})

	t.Run("create for another teacher", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"studentId": %d, "teacherId": %q}`, alice.ID, amy.ID))
		req, rec := newAuthRequest(http.MethodPost, "/lessons", benToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errUnauthorizedBody),
		}, rec)
	})

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "retrieve", method: http.MethodGet, token: amyToken,
		},
		{
			name: "retrieve: foreign lesson", method: http.MethodGet, token: benToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "update notes", method: http.MethodPatch, token: amyToken,
			body: []byte(`{"notes": "vibrato next time"}`),
		},
		{
			name: "update: hand off to another teacher", method: http.MethodPatch, token: amyToken,
			body:     []byte(fmt.Sprintf(`{"teacherId": %q}`, ben.ID)),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "update: no data", method: http.MethodPatch, token: amyToken,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, fmt.Sprintf("/lessons/%d", created.ID), tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("techniques lists the student review queue", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/lessons/%d/techniques", created.ID), amyToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp struct {
			Techniques []student.TechniqueReview `json:"techniques"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(resp.Techniques) != 1 || resp.Techniques[0].ID != scale.ID {
			t.Errorf("techniques = %+v; want the assigned scale", resp.Techniques)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/lessons/%d", created.ID), amyToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantData: marchallObj(t, echo.Map{"deleted": created.ID})}, rec)

		req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/lessons/%d", created.ID), amyToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "lesson not found"}),
		}, rec)
	})
}
