package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/strangerlabs/ghostline/internal/model/persona"
	sessionservice "github.com/strangerlabs/ghostline/internal/service/session"
)

func newTestRouter() http.Handler {
	manager := sessionservice.NewManager(persona.NewMemoryStore(persona.Seed()), nil, nil)
	r := chi.NewRouter()
	New(manager).RegisterRoutes(r)
	return r
}

func TestStartSession(t *testing.T) {
	router := newTestRouter()

	body := `{"userId":"u1","personaKey":"south_indian","gender":"Male","country":"India"}`
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"personaKey":"south_indian"`) {
		t.Fatalf("response missing persona: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "systemPrompt") {
		t.Fatalf("system prompt must never leave the server: %s", rec.Body.String())
	}
}

func TestStartSessionUnknownPersona(t *testing.T) {
	router := newTestRouter()

	body := `{"userId":"u1","personaKey":"nobody"}`
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStartSessionValidation(t *testing.T) {
	router := newTestRouter()

	for _, body := range []string{
		"not json",
		`{"userId":"u1"}`,
		`{"personaKey":"south_indian"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, rec.Code)
		}
	}
}

func TestGetSession(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/session/u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before start, got %d", rec.Code)
	}

	start := httptest.NewRequest(http.MethodPost, "/session",
		strings.NewReader(`{"userId":"u1","personaKey":"american_girl"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, start)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/session/u1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after start, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"personaKey":"american_girl"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestEndSession(t *testing.T) {
	router := newTestRouter()

	start := httptest.NewRequest(http.MethodPost, "/session",
		strings.NewReader(`{"userId":"u1","personaKey":"kpop_stan"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, start)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start failed: %d", rec.Code)
	}

	del := httptest.NewRequest(http.MethodDelete, "/session/u1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, del)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	// Deleting again stays a 204; End is idempotent.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/session/u1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on repeat, got %d", rec.Code)
	}
}
