package persona

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	personamodel "github.com/strangerlabs/ghostline/internal/model/persona"
)

func TestListPersonas(t *testing.T) {
	r := chi.NewRouter()
	New(personamodel.NewMemoryStore(personamodel.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/personas", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []personamodel.Persona
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("expected 7 personas, got %d", len(got))
	}
	if strings.Contains(rec.Body.String(), "systemPrompt") {
		t.Fatalf("system prompts must not be listed: %s", rec.Body.String())
	}
}
