package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oloap008/Trello-Clone/internal/config"
	"github.com/Oloap008/Trello-Clone/internal/middleware"
	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/service"
)

const secret = "handler-secret"

type testServer struct {
	e     *echo.Echo
	store *repository.Store
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	store := repository.New(model.Seed(time.Now().UTC()), repository.Options{})
	auth := service.NewAuth(store, nil, service.AuthOptions{BcryptCost: bcrypt.MinCost})
	tokens := repository.NewMemoryTokenRepo()
	ah := NewAuthHandler(config.AuthConfig{JWTSecret: secret, SessionTTL: time.Hour}, auth, store, tokens)
	bh := NewBoardHandler(store, nil, nil, nil)
	wh := NewWorkspaceHandler(store, service.NewWorkspaces(store, nil))
	dh := NewDataHandler(store)

	e := echo.New()
	e.GET("/healthz", Health)
	e.POST("/v1/auth/register", ah.Register)
	e.POST("/v1/auth/login", ah.Login)

	v1 := e.Group("/v1", middleware.JWTAuth(secret, tokens))
	v1.GET("/me", ah.Me)
	v1.POST("/logout", ah.Logout)
	v1.GET("/boards/:id/kanban", bh.Kanban, middleware.RequireBoardMember(store, "id", false))
	v1.POST("/lists/:id/cards", bh.CreateCard)
	v1.POST("/cards/:id/move", bh.MoveCard)
	v1.GET("/cards/:id", bh.GetCard)
	v1.GET("/workspaces", wh.ListWorkspaces)
	v1.POST("/boards/:id/members", wh.InviteMember)
	data := v1.Group("/data", middleware.RequireAdmin("demo@example.com"))
	data.POST("/import", dh.Import)
	data.GET("/export", dh.Export)
	data.POST("/reset", dh.Reset)
	return &testServer{e: e, store: store}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/v1/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body)
	}
	var resp authResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Access.Token
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	if rec := s.do(http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body)
	}
}

func TestLoginAndKanban(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, "demo@example.com", "password123")

	rec := s.do(http.MethodGet, "/v1/boards/1/kanban", tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("kanban = %d %s", rec.Code, rec.Body)
	}
	var lists []model.KanbanList
	if err := json.Unmarshal(rec.Body.Bytes(), &lists); err != nil {
		t.Fatal(err)
	}
	if len(lists) != 3 || lists[0].Title != "To Do" || len(lists[2].Cards) != 1 {
		t.Fatalf("lists = %+v", lists)
	}

	rec = s.do(http.MethodGet, "/v1/boards/1/kanban?cardStatus=complete", tok, "")
	if err := json.Unmarshal(rec.Body.Bytes(), &lists); err != nil {
		t.Fatal(err)
	}
	if len(lists[0].Cards) != 0 || len(lists[2].Cards) != 1 {
		t.Fatalf("filtered lists = %+v", lists)
	}
	if rec := s.do(http.MethodGet, "/v1/boards/1/kanban?activity=someday", tok, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad activity = %d", rec.Code)
	}
}

func TestLoginRejects(t *testing.T) {
	s := newServer(t)
	cases := []struct {
		name, body string
		want       int
	}{
		{"wrong password", `{"email":"demo@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":"demo@example.com"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := s.do(http.MethodPost, "/v1/auth/login", "", tc.body); rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodPost, "/v1/auth/register", "", `{"name":"Alice Smith","email":"alice@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", rec.Code, rec.Body)
	}
	rec = s.do(http.MethodPost, "/v1/auth/register", "", `{"name":"Alice Smith","email":"ALICE@example.com","password":"secret1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d", rec.Code)
	}
	rec = s.do(http.MethodPost, "/v1/auth/register", "", `{"name":"A","email":"a@example.com","password":"secret1"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"name"`) {
		t.Fatalf("short name = %d %s", rec.Code, rec.Body)
	}
}

func TestBoardAccess(t *testing.T) {
	s := newServer(t)
	jane := s.login(t, "jane@example.com", "jane123")
	if rec := s.do(http.MethodGet, "/v1/boards/1/kanban", jane, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("kanban for non-member = %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/v1/lists/1/cards", jane, `{"title":"Sneaky"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("create card for non-member = %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/v1/cards/1", jane, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("card for non-member = %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/v1/boards/1/kanban", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous kanban = %d", rec.Code)
	}
}

func TestCreateAndMoveCard(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, "demo@example.com", "password123")

	rec := s.do(http.MethodPost, "/v1/lists/1/cards", tok, `{"title":"Write docs","description":"API"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create card = %d %s", rec.Code, rec.Body)
	}
	var card model.Card
	if err := json.Unmarshal(rec.Body.Bytes(), &card); err != nil {
		t.Fatal(err)
	}
	if card.ID != 10 || card.ListID != 1 || card.Position != 2 || card.CreatedByID != 1 {
		t.Fatalf("card = %+v", card)
	}
	if rec := s.do(http.MethodPost, "/v1/lists/1/cards", tok, `{"title":"  "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank title = %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/v1/lists/99/cards", tok, `{"title":"x"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("missing list = %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/v1/cards/10/move", tok, `{"listId":3,"position":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("move = %d %s", rec.Code, rec.Body)
	}
	moved, _ := s.store.Cards.ByID(10)
	done, _ := s.store.Cards.ByID(3)
	if moved.ListID != 3 || moved.Position != 1 || done.Position != 2 {
		t.Fatalf("moved = %+v, done = %+v", moved, done)
	}
	if rec := s.do(http.MethodPost, "/v1/cards/10/move", tok, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("move without list = %d", rec.Code)
	}

	// john edits board 1 but has no rights on board 4
	john := s.login(t, "john@example.com", "john123")
	if rec := s.do(http.MethodPost, "/v1/cards/10/move", john, `{"listId":11}`); rec.Code != http.StatusForbidden {
		t.Fatalf("cross-board move without rights = %d", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, "demo@example.com", "password123")
	if rec := s.do(http.MethodGet, "/v1/me", tok, ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"workspaces"`) {
		t.Fatalf("me = %d %s", rec.Code, rec.Body)
	}
	if rec := s.do(http.MethodPost, "/v1/logout", tok, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout = %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/v1/me", tok, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout = %d", rec.Code)
	}
}

func TestWorkspacesAndInvite(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, "demo@example.com", "password123")

	rec := s.do(http.MethodGet, "/v1/workspaces", tok, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"slug":"1-demo-workspace"`) {
		t.Fatalf("workspaces = %d %s", rec.Code, rec.Body)
	}
	if rec := s.do(http.MethodPost, "/v1/boards/1/members", tok, `{"userId":3,"canEdit":false}`); rec.Code != http.StatusCreated {
		t.Fatalf("invite = %d %s", rec.Code, rec.Body)
	}
	if rec := s.do(http.MethodPost, "/v1/boards/1/members", tok, `{"userId":3}`); rec.Code != http.StatusConflict {
		t.Fatalf("repeat invite = %d", rec.Code)
	}
	if _, ok := s.store.BoardMembership(3, 1); !ok {
		t.Fatal("jane is not a member of board 1")
	}
}

func TestImportExport(t *testing.T) {
	s := newServer(t)
	tok := s.login(t, "demo@example.com", "password123")

	if rec := s.do(http.MethodPost, "/v1/data/import", tok, `{not json`); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed import = %d", rec.Code)
	}
	if s.store.Users.Len() != 3 {
		t.Fatal("malformed import changed the store")
	}

	rec := s.do(http.MethodGet, "/v1/data/export", tok, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"boards"`) {
		t.Fatalf("export = %d", rec.Code)
	}
	exported := rec.Body.String()
	if rec := s.do(http.MethodPost, "/v1/data/import", tok, exported); rec.Code != http.StatusNoContent {
		t.Fatalf("round-trip import = %d %s", rec.Code, rec.Body)
	}

	rec = s.do(http.MethodGet, "/v1/data/export?format=yaml", tok, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "application/yaml") {
		t.Fatalf("yaml export = %d %s", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}
}

func TestDataRequiresAdmin(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodPost, "/v1/auth/register", "", `{"name":"Mallory","email":"m@x.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d %s", rec.Code, rec.Body)
	}
	tok := s.login(t, "m@x.com", "secret1")
	before := s.store.Snapshot()

	if rec := s.do(http.MethodGet, "/v1/data/export", tok, ""); rec.Code != http.StatusForbidden || strings.Contains(rec.Body.String(), "password123") {
		t.Fatalf("export as ordinary user = %d %s", rec.Code, rec.Body)
	}
	if rec := s.do(http.MethodPost, "/v1/data/import", tok, `{"users":[]}`); rec.Code != http.StatusForbidden {
		t.Fatalf("import as ordinary user = %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/v1/data/reset", tok, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("reset as ordinary user = %d", rec.Code)
	}
	if after := s.store.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatal("document changed by an ordinary user")
	}
}
