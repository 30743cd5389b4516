// AngelaMos | 2026
// handler.go

package activity

import (
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

// RegisterRoutes mounts the log under its kind's path, e.g. /meetings.
func (h *Handler) RegisterRoutes(r chi.Router, guards ...func(http.Handler) http.Handler) {
	r.Route(h.service.Kind().Path, func(r chi.Router) {
		r.Use(guards...)

		r.Get("/", h.List)
		r.Post("/", h.Create)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	limit := h.limits.FromRequest(r)
	records, err := h.service.ListVisible(r.Context(), sess, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.List(w, ToRecordResponseList(records, h.loc), len(records), limit)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	var req CreateRecordRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationDetails(err))
		return
	}

	rec, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToRecordResponse(rec, h.loc))
}
