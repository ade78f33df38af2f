package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/communityboard/board/internal/api/handler"
	"github.com/communityboard/board/internal/core/ports"
	"github.com/communityboard/board/internal/core/service"
	"github.com/communityboard/board/internal/infrastructure/db/docstore"
	"github.com/communityboard/board/internal/infrastructure/security"
)

type testServer struct {
	e       *echo.Echo
	store   *docstore.Store
	backend *docstore.MemoryBackend
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	backend := docstore.NewMemoryBackend()
	store, err := docstore.Open(ctx, backend, zerolog.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	tokens := security.NewJWTService("router-test-secret")
	auth := service.NewAuthService(docstore.NewUserRepository(store), security.NewBcryptHasher(bcrypt.MinCost), tokens, zerolog.Nop())
	if err := auth.SeedAdminIfAbsent(ctx, ports.AdminSeed{Username: "root", Password: "toor"}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	e := NewRouter(Deps{
		Auth:   auth,
		Posts:  service.NewPostService(docstore.NewPostRepository(store), zerolog.Nop()),
		Authn:  service.NewGate(tokens),
		Checks: map[string]handler.Checker{"store": store.Ping},
		Logger: zerolog.Nop(),
	})
	return &testServer{e: e, store: store, backend: backend}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid login json: %v", err)
	}
	return resp.AccessToken
}

func TestRouter_Scenario(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/register", "", `{"name":"Alice","username":"alice","password":"pw1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var registered struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &registered)

	rec = s.do(t, http.MethodPost, "/login", "", `{"username":"alice","password":"pw1"}`)
	var login struct {
		AccessToken string `json:"accessToken"`
		Role        string `json:"role"`
		Name        string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	if login.Role != "member" || login.Name != "Alice" {
		t.Fatalf("unexpected login payload: %+v", login)
	}

	rec = s.do(t, http.MethodPost, "/posts", login.AccessToken, `{"title":"Hello","content":"World"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var post struct {
		ID       string `json:"id"`
		AuthorID string `json:"authorId"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &post)
	if post.AuthorID != registered.ID {
		t.Fatalf("expected author %s, got %s", registered.ID, post.AuthorID)
	}

	if rec := s.do(t, http.MethodDelete, "/posts/"+post.ID, login.AccessToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("member delete: expected 403, got %d", rec.Code)
	}

	admin := s.login(t, "root", "toor")
	if rec := s.do(t, http.MethodDelete, "/posts/"+post.ID, admin, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete: expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodDelete, "/posts/"+post.ID, admin, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodGet, "/posts", "", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("list: expected empty array, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_StatusCodes(t *testing.T) {
	s := newTestServer(t)
	member := func() string {
		s.do(t, http.MethodPost, "/register", "", `{"username":"bob","password":"pw"}`)
		return s.login(t, "bob", "pw")
	}()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"register missing password", http.MethodPost, "/register", "", `{"username":"carol"}`, http.StatusBadRequest},
		{"register malformed", http.MethodPost, "/register", "", `{"username":`, http.StatusBadRequest},
		{"register duplicate", http.MethodPost, "/register", "", `{"username":"bob","password":"x"}`, http.StatusConflict},
		{"login wrong password", http.MethodPost, "/login", "", `{"username":"bob","password":"nope"}`, http.StatusUnauthorized},
		{"login unknown user", http.MethodPost, "/login", "", `{"username":"nobody","password":"pw"}`, http.StatusUnauthorized},
		{"login missing fields", http.MethodPost, "/login", "", `{}`, http.StatusUnauthorized},
		{"create without token", http.MethodPost, "/posts", "", `{"title":"t","content":"c"}`, http.StatusUnauthorized},
		{"create bad token", http.MethodPost, "/posts", "not-a-jwt", `{"title":"t","content":"c"}`, http.StatusUnauthorized},
		{"create missing content", http.MethodPost, "/posts", member, `{"title":"t"}`, http.StatusBadRequest},
		{"delete without token", http.MethodDelete, "/posts/x", "", "", http.StatusUnauthorized},
		{"list is public", http.MethodGet, "/posts", "", "", http.StatusOK},
		{"api prefix", http.MethodGet, "/api/posts", "", "", http.StatusOK},
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_UnauthenticatedResponsesAreIdentical(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/register", "", `{"username":"dave","password":"pw"}`)

	bodies := []string{
		s.do(t, http.MethodPost, "/login", "", `{"username":"dave","password":"bad"}`).Body.String(),
		s.do(t, http.MethodPost, "/login", "", `{"username":"ghost","password":"bad"}`).Body.String(),
		s.do(t, http.MethodPost, "/posts", "", `{"title":"t","content":"c"}`).Body.String(),
		s.do(t, http.MethodPost, "/posts", "garbage", `{"title":"t","content":"c"}`).Body.String(),
	}
	for _, b := range bodies[1:] {
		if b != bodies[0] {
			t.Fatalf("expected identical 401 bodies, got %q and %q", bodies[0], b)
		}
	}
}

func TestRouter_ConcurrentCreates(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/register", "", `{"username":"erin","password":"pw"}`)
	token := s.login(t, "erin", "pw")

	const n = 30
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- s.do(t, http.MethodPost, "/posts", token, `{"title":"t","content":"c"}`).Code
		}()
	}
	wg.Wait()
	close(codes)
	for code := range codes {
		if code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", code)
		}
	}

	if got := len(s.store.Snapshot().Posts); got != n {
		t.Fatalf("expected %d posts, got %d", n, got)
	}
}
