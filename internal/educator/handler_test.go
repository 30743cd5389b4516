// AngelaMos | 2026
// handler_test.go

package educator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

func newTestRouter(actor *session.Session) http.Handler {
	svc, _ := newTestService()
	withActor := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), actor)))
		})
	}
	adminOnly := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, _ := session.FromContext(r.Context()); !s.IsAdmin() {
				core.Forbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewRouter()
	NewHandler(svc, core.Limits{Default: 50, Max: 100}, time.UTC).RegisterRoutes(r, withActor, adminOnly)
	return r
}

func hit(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_ProfileLifecycle(t *testing.T) {
	h := newTestRouter(edu("joana"))

	if rec := hit(h, http.MethodGet, "/educator/profile", ""); rec.Code != http.StatusNotFound {
		t.Errorf("before upsert: %d", rec.Code)
	}

	body := `{"company":"Gama","state":"rj","educator_name":"Joana","project_value":"100"}`
	rec := hit(h, http.MethodPut, "/educator/profile", body)
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"created":true`) {
		t.Fatalf("first put: %d %s", rec.Code, rec.Body)
	}

	rec = hit(h, http.MethodPut, "/educator/profile", body)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"created":false`) {
		t.Errorf("second put: %d %s", rec.Code, rec.Body)
	}

	rec = hit(h, http.MethodGet, "/educator/profile", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"state":"RJ"`) ||
		!strings.Contains(rec.Body.String(), `"project_value_display":"R$ 100,00"`) {
		t.Errorf("get: %d %s", rec.Code, rec.Body)
	}

	if rec := hit(h, http.MethodGet, "/educator/profiles", ""); rec.Code != http.StatusForbidden {
		t.Errorf("educator listing all profiles: %d", rec.Code)
	}
}

func TestHandler_AdminListsProfiles(t *testing.T) {
	h := newTestRouter(&session.Session{Username: "boss", Role: session.RoleAdmin})

	rec := hit(h, http.MethodGet, "/educator/profiles", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Errorf("admin list: %d %s", rec.Code, rec.Body)
	}
}
