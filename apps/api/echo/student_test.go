package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/soundtrackapp/soundtrack/core/student"
)

func Test_studentAPI_query(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	ben := createTeacher(t, repos.teacher, "Ben", "ben@test.com", "", false)
	root := createTeacher(t, repos.teacher, "Root", "root@test.com", "", true)

	alice := createStudent(t, repos.student, "Alice", "alice@test.com", amy.ID)
	bob := createStudent(t, repos.student, "Bob", "bob@test.com", amy.ID)
	carol := createStudent(t, repos.student, "Carol", "carol@test.com", ben.ID)

	amyToken := getToken(t, conf, amy)
	rootToken := getToken(t, conf, root)

	tests := []httpTest{
		{
			name: "auth required", path: "/students",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "foreign teacher filter", path: "/students?teacherId=" + ben.ID, token: amyToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "own students only", path: "/students", token: amyToken,
			wantData: marchallObj(t, echo.Map{"students": []student.Student{alice, bob}}),
		},
		{
			name: "own teacher filter", path: "/students?teacherId=" + amy.ID, token: amyToken,
			wantData: marchallObj(t, echo.Map{"students": []student.Student{alice, bob}}),
		},
		{
			name: "name filter", path: "/students?name=ali", token: amyToken,
			wantData: marchallObj(t, echo.Map{"students": []student.Student{alice}}),
		},
		{
			name: "admin sees all", path: "/students", token: rootToken,
			wantData: marchallObj(t, echo.Map{"students": []student.Student{alice, bob, carol}}),
		},
		{
			name: "admin teacher filter", path: "/students?teacherId=" + ben.ID, token: rootToken,
			wantData: marchallObj(t, echo.Map{"students": []student.Student{carol}}),
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

func Test_studentAPI_crud(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	ben := createTeacher(t, repos.teacher, "Ben", "ben@test.com", "", false)

	amyToken := getToken(t, conf, amy)
	carol := createStudent(t, repos.student, "Carol", "carol@test.com", ben.ID)

	var created student.Student

	t.Run("create defaults to the caller", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/students", amyToken,
			[]byte(`{"name": "Alice", "email": "alice@test.com"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var resp struct {
			Student student.Student `json:"student"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if resp.Student.TeacherID.String != amy.ID {
			t.Errorf("TeacherID = %q; want %q", resp.Student.TeacherID.String, amy.ID)
		}
		created = resp.Student
	})

	tests := []httpTest{
		{
			name: "create for another teacher", method: http.MethodPost, path: "/students", token: amyToken,
			body:     []byte(fmt.Sprintf(`{"name": "Dan", "email": "dan@test.com", "teacherId": %q}`, ben.ID)),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "retrieve foreign student", method: http.MethodGet,
			path: fmt.Sprintf("/students/%d", carol.ID), token: amyToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "retrieve unknown student", method: http.MethodGet, path: "/students/424242", token: amyToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student not found"}),
		},
		{
			name: "bad id", method: http.MethodGet, path: "/students/lol", token: amyToken,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "reassign to another teacher", method: http.MethodPatch, token: amyToken,
			body:     []byte(fmt.Sprintf(`{"teacherId": %q}`, ben.ID)),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "update", method: http.MethodPatch, token: amyToken,
			body: []byte(`{"name": "Alice B"}`),
		},
		{
			name: "update: no data", method: http.MethodPatch, token: amyToken,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "delete", method: http.MethodDelete, token: amyToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = fmt.Sprintf("/students/%d", created.ID)
			}
			req, rec := newAuthRequest(tt.method, path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentAPI_techniqueReviews(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	amyToken := getToken(t, conf, amy)

	alice := createStudent(t, repos.student, "Alice", "alice@test.com", amy.ID)
	scale := createTechnique(t, repos.technique, "C", "major", "scale", amy.ID)
	arpeggio := createTechnique(t, repos.technique, "G", "major", "arpeggio", amy.ID)
	oneOff := createTechnique(t, repos.technique, "D", "dorian", "mode study", amy.ID)

	basePath := fmt.Sprintf("/students/%d/techniques", alice.ID)

	assign := func(t *testing.T, body string, wantCode int) student.AssignedTechnique {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, basePath, amyToken, []byte(body))
		app.ServeHTTP(rec, req)
		if rec.Code != wantCode {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, wantCode, rec.Body.String())
		}
		var resp struct {
			Technique student.AssignedTechnique `json:"technique"`
		}
		if rec.Code == http.StatusCreated {
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
		}
		return resp.Technique
	}

	queue := func(t *testing.T, includeCompleted bool) []student.TechniqueReview {
		t.Helper()
		path := basePath
		if includeCompleted {
			path += "?includeCompleted=true"
		}
		req, rec := newAuthRequest(http.MethodGet, path, amyToken)
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
		return resp.Techniques
	}

	assigned := assign(t, fmt.Sprintf(`{"techniqueId": %d, "reviewIntervalDays": 7}`, scale.ID), http.StatusCreated)
	if assigned.Completed {
		t.Error("fresh assignment should not be completed")
	}
	if !assigned.NextReview.Valid {
		t.Error("fresh assignment should be due right away")
	}

	assign(t, fmt.Sprintf(`{"techniqueId": %d, "reviewIntervalDays": 7}`, scale.ID), http.StatusBadRequest) // duplicate
	assign(t, fmt.Sprintf(`{"techniqueId": %d, "reviewIntervalDays": 1.5}`, arpeggio.ID), http.StatusCreated)
	assign(t, fmt.Sprintf(`{"techniqueId": %d}`, oneOff.ID), http.StatusCreated)
	assign(t, fmt.Sprintf(`{"techniqueId": %d, "reviewIntervalDays": "lol"}`, oneOff.ID), http.StatusBadRequest)

	if got := queue(t, false); len(got) != 3 {
		t.Fatalf("queue size = %d; want 3", len(got))
	}

	// the scale was reviewed moments ago; next review is 7 days out
	repos.db.SetTechniqueReviewState(alice.ID, scale.ID, null.TimeFrom(time.Now()), null.TimeFrom(time.Now()))
	// the one-off study is done and has no interval; it drops off for good
	repos.db.SetTechniqueReviewState(alice.ID, oneOff.ID, null.TimeFrom(time.Now()), null.TimeFrom(time.Now()))

	due := queue(t, false)
	if len(due) != 1 {
		t.Fatalf("due queue size = %d; want 1", len(due))
	}
	if due[0].ID != arpeggio.ID {
		t.Errorf("due[0].ID = %d; want %d", due[0].ID, arpeggio.ID)
	}

	all := queue(t, true)
	if len(all) != 3 {
		t.Fatalf("full queue size = %d; want 3", len(all))
	}
	// unscheduled items sort last
	if last := all[len(all)-1]; last.ID != oneOff.ID || last.NextReview.Valid {
		t.Errorf("last = %+v; want the completed one-off with no next review", last)
	}

	// the scale comes back once its interval lapses
	repos.db.SetTechniqueReviewState(alice.ID, scale.ID, null.TimeFrom(time.Now().Add(-8*24*time.Hour)), null.TimeFrom(time.Now()))
	due = queue(t, false)
	if len(due) != 2 {
		t.Fatalf("due queue size = %d; want 2", len(due))
	}

	t.Run("unassign", func(t *testing.T) {
		path := fmt.Sprintf("%s/%d", basePath, scale.ID)
		req, rec := newAuthRequest(http.MethodDelete, path, amyToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantData: marchallObj(t, echo.Map{"deleted": scale.ID})}, rec)

		req, rec = newAuthRequest(http.MethodDelete, path, amyToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "technique not assigned to this student"}),
		}, rec)
	})
}

func Test_studentAPI_repertoireReviews(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	amyToken := getToken(t, conf, amy)

	alice := createStudent(t, repos.student, "Alice", "alice@test.com", amy.ID)
	piece := createRepertoire(t, repos.repertoire, "Spring", "Vivaldi", "baroque", amy.ID)

	basePath := fmt.Sprintf("/students/%d/repertoire", alice.ID)

	req, rec := newAuthRequest(http.MethodPost, basePath, amyToken,
		[]byte(fmt.Sprintf(`{"repertoireId": %d, "reviewIntervalDays": 14}`, piece.ID)))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	// reviewed yesterday; not due for another 13 days
	repos.db.SetRepertoireReviewState(alice.ID, piece.ID, null.TimeFrom(time.Now().Add(-24*time.Hour)), null.TimeFrom(time.Now()))

	req, rec = newAuthRequest(http.MethodGet, basePath, amyToken)
	app.ServeHTTP(rec, req)
	var resp struct {
		Repertoire []student.RepertoireReview `json:"repertoire"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(resp.Repertoire) != 0 {
		t.Fatalf("due queue size = %d; want 0", len(resp.Repertoire))
	}

	req, rec = newAuthRequest(http.MethodGet, basePath+"?includeCompleted=true", amyToken)
	app.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(resp.Repertoire) != 1 {
		t.Fatalf("full queue size = %d; want 1", len(resp.Repertoire))
	}
	got := resp.Repertoire[0]
	if got.Name != "Spring" || got.Composer != "Vivaldi" {
		t.Errorf("review = %+v; want the assigned piece", got)
	}
	if !got.NextReview.Valid {
		t.Error("expected a scheduled next review")
	}
}
