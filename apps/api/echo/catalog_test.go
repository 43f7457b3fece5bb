package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/soundtrackapp/soundtrack/core/skilllevel"
	"github.com/soundtrackapp/soundtrack/core/technique"
)

func Test_skillLevelAPI(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	root := createTeacher(t, repos.teacher, "Root", "root@test.com", "", true)

	beginner, err := repos.skillLevel.CreateSkillLevel(ctxb(), "beginner")
	if err != nil {
		t.Fatalf("CreateSkillLevel() failed: %v", err)
	}

	tests := []httpTest{
		{
			name: "query is open", method: http.MethodGet, path: "/skill-levels",
			wantData: marchallObj(t, echo.Map{"skillLevels": []skilllevel.SkillLevel{beginner}}),
		},
		{
			name: "create: auth required", method: http.MethodPost, path: "/skill-levels",
			body:     []byte(`{"name": "intermediate"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "create: admin required", method: http.MethodPost, path: "/skill-levels", token: getToken(t, conf, amy),
			body:     []byte(`{"name": "intermediate"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "create", method: http.MethodPost, path: "/skill-levels", token: getToken(t, conf, root),
			body:     []byte(`{"name": "intermediate"}`),
			wantCode: http.StatusCreated,
		},
		{
			name: "delete: admin required", method: http.MethodDelete,
			path: fmt.Sprintf("/skill-levels/%d", beginner.ID), token: getToken(t, conf, amy),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "delete", method: http.MethodDelete,
			path: fmt.Sprintf("/skill-levels/%d", beginner.ID), token: getToken(t, conf, root),
			wantData: marchallObj(t, echo.Map{"deleted": beginner.ID}),
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

func Test_techniqueAPI(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	ben := createTeacher(t, repos.teacher, "Ben", "ben@test.com", "", false)
	root := createTeacher(t, repos.teacher, "Root", "root@test.com", "", true)

	amyToken := getToken(t, conf, amy)
	scale := createTechnique(t, repos.technique, "C", "major", "scale", ben.ID)

	var created technique.Technique

	t.Run("create defaults to the caller", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/techniques", amyToken,
			[]byte(`{"tonic": "G", "mode": "minor", "type": "arpeggio"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var resp struct {
			Technique technique.Technique `json:"technique"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if resp.Technique.TeacherID.String != amy.ID {
			t.Errorf("TeacherID = %q; want %q", resp.Technique.TeacherID.String, amy.ID)
		}
		created = resp.Technique
	})

	t.Run("create: duplicate combination", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/techniques", amyToken,
			[]byte(`{"tonic": "G", "mode": "minor", "type": "arpeggio"}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "this technique already exists for this teacher"}),
		}, rec)
	})

	tests := []httpTest{
		{
			name: "query: admin only", method: http.MethodGet, path: "/techniques", token: amyToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "query: admin", method: http.MethodGet, path: "/techniques", token: getToken(t, conf, root),
		},
		{
			name: "retrieve: foreign technique", method: http.MethodGet,
			path: fmt.Sprintf("/techniques/%d", scale.ID), token: amyToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "update", method: http.MethodPatch, token: amyToken,
			body: []byte(`{"description": "two octaves"}`),
		},
		{
			name: "update: foreign technique", method: http.MethodPatch,
			path: fmt.Sprintf("/techniques/%d", scale.ID), token: amyToken,
			body:     []byte(`{"description": "nope"}`),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorizedBody),
		},
		{
			name: "delete", method: http.MethodDelete, token: amyToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = fmt.Sprintf("/techniques/%d", created.ID)
			}
			req, rec := newAuthRequest(tt.method, path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_repertoireAPI(t *testing.T) {
	app, repos, conf := setup(t)

	amy := createTeacher(t, repos.teacher, "Amy", "amy@test.com", "", false)
	ben := createTeacher(t, repos.teacher, "Ben", "ben@test.com", "", false)

	amyToken := getToken(t, conf, amy)
	foreign := createRepertoire(t, repos.repertoire, "Winter", "Vivaldi", "baroque", ben.ID)

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/repertoire", amyToken,
			[]byte(`{"name": "Spring", "composer": "Vivaldi", "genre": "baroque"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})

	t.Run("create: bad sheet music url", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/repertoire", amyToken,
			[]byte(`{"name": "Summer", "composer": "Vivaldi", "genre": "baroque", "sheetMusicUrl": "not-a-url"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; want %v; body = %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("retrieve: foreign item", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/repertoire/%d", foreign.ID), amyToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errUnauthorizedBody),
		}, rec)
	})
}
