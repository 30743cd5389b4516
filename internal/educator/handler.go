// AngelaMos | 2026
// handler.go

package educator

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	limits    core.Limits
	loc       *time.Location
}

func NewHandler(service *Service, limits core.Limits, loc *time.Location) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		limits:    limits,
		loc:       loc,
	}
}

// RegisterRoutes mounts /educator. guard applies to every route; the
// profile listing additionally needs adminOnly.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	guard, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/educator", func(r chi.Router) {
		r.Use(guard)

		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpsertProfile)
		r.With(adminOnly).Get("/profiles", h.ListProfiles)
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	p, err := h.service.Get(r.Context(), sess)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "educator profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(p, h.loc))
}

func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	var req UpsertProfileRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationDetails(err))
		return
	}

	p, created, err := h.service.Upsert(r.Context(), sess, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	resp := UpsertResponse{Profile: ToProfileResponse(p, h.loc), Created: created}
	if created {
		core.Created(w, resp)
		return
	}
	core.OK(w, resp)
}

func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	limit := h.limits.FromRequest(r)
	profiles, err := h.service.ListVisible(r.Context(), sess, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, ToProfileResponseList(profiles, h.loc), len(profiles), limit)
}
