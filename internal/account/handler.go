// AngelaMos | 2026
// handler.go

package account

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes registers admin-only account management endpoints.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{username}/active", h.SetActive)
		r.Put("/{username}/password", h.ResetPassword)
		r.Put("/{username}/username", h.Rename)
		r.Put("/{username}/role", h.ChangeRole)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	items := ToAccountResponseList(accounts)
	core.List(w, items, len(items), len(items))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	a, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToAccountResponse(a))
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor, _ := session.FromContext(r.Context())
	a, err := h.service.SetActive(r.Context(), actor, usernameParam(r), *req.Active)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(a))
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), usernameParam(r), req.Password); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor, _ := session.FromContext(r.Context())
	a, err := h.service.Rename(r.Context(), actor, usernameParam(r), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(a))
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	actor, _ := session.FromContext(r.Context())
	a, err := h.service.ChangeRole(r.Context(), actor, usernameParam(r), req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(a))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := core.DecodeJSON(w, r, dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.JSONError(w, core.ValidationDetails(err))
		return false
	}

	return true
}

func usernameParam(r *http.Request) string {
	raw := chi.URLParam(r, "username")
	if u, err := url.PathUnescape(raw); err == nil {
		return u
	}
	return raw
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "account")
	case errors.Is(err, core.ErrDuplicateKey):
		core.JSONError(w, core.DuplicateError("username"))
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "admins cannot lock themselves out")
	default:
		core.JSONError(w, err)
	}
}
