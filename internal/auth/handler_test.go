// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

func newAuthRouter(f *fixture) http.Handler {
	authenticator := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			s, err := f.service.ResolveSession(r.Context(), token)
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
	passthrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewHandler(f.service).RegisterRoutes(r, authenticator, passthrough)
	return r
}

func call(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)
	h := newAuthRouter(f)

	unknown := call(h, http.MethodPost, "/auth/login", "", `{"username":"nobody","password":"password1"}`)
	wrong := call(h, http.MethodPost, "/auth/login", "", `{"username":"bruno","password":"nope"}`)

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("status: unknown=%d wrong=%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", unknown.Body, wrong.Body)
	}
	if !strings.Contains(wrong.Body.String(), "invalid username or password") {
		t.Errorf("unexpected message: %s", wrong.Body)
	}
}

func TestHandler_SessionFlow(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)
	h := newAuthRouter(f)

	rec := call(h, http.MethodPost, "/auth/login", "", `{"username":"bruno","password":"password1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}

	var body struct {
		Success bool          `json:"success"`
		Data    LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	token := body.Data.Token.AccessToken
	if !body.Success || token == "" || body.Data.Session.Username != "bruno" {
		t.Fatalf("unexpected login body: %s", rec.Body)
	}

	if rec := call(h, http.MethodGet, "/auth/me", token, ""); rec.Code != http.StatusOK ||
		!strings.Contains(rec.Body.String(), `"username":"bruno"`) {
		t.Errorf("me: %d %s", rec.Code, rec.Body)
	}

	rec = call(h, http.MethodPost, "/auth/change-password", token,
		`{"current_password":"password1","new_password":"password2"}`)
	if rec.Code != http.StatusNoContent {
		t.Errorf("change password: %d %s", rec.Code, rec.Body)
	}

	if rec := call(h, http.MethodPost, "/auth/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Errorf("logout: %d %s", rec.Code, rec.Body)
	}

	if rec := call(h, http.MethodGet, "/auth/me", token, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: %d", rec.Code)
	}
}

func TestHandler_LoginValidation(t *testing.T) {
	f := newFixture(t)
	h := newAuthRouter(f)

	rec := call(h, http.MethodPost, "/auth/login", "", `{"username":"","password":""}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "VALIDATION_ERROR") {
		t.Errorf("empty fields: %d %s", rec.Code, rec.Body)
	}

	rec = call(h, http.MethodPost, "/auth/login", "", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: %d", rec.Code)
	}
}

func TestHandler_ChangePasswordRejectsOverlongMultibyte(t *testing.T) {
	f := newFixture(t)
	f.accounts.add(t, f.hasher, "bruno", "password1", session.RoleUser)
	h := newAuthRouter(f)

	rec := call(h, http.MethodPost, "/auth/login", "", `{"username":"bruno","password":"password1"}`)
	var body struct {
		Data LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// 40 runes, 80 bytes.
	long := strings.Repeat("é", 40)
	rec = call(h, http.MethodPost, "/auth/change-password", body.Data.Token.AccessToken,
		`{"current_password":"password1","new_password":"`+long+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "new_password") {
		t.Errorf("expected a new_password field error: %s", rec.Body)
	}
}
