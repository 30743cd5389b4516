// AngelaMos | 2026
// handler.go

package certificate

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/session"
)

type CreateCertificateRequest struct {
	Month   string `json:"month"   validate:"required"`
	Client  string `json:"client"  validate:"required"`
	Project string `json:"project" validate:"required"`
	Earned  string `json:"earned"  validate:"required"`
}

type CertificateResponse struct {
	ID        int64     `json:"id"`
	Month     string    `json:"month"`
	Client    string    `json:"client"`
	Project   string    `json:"project"`
	Earned    string    `json:"earned"`
	CreatedAt time.Time `json:"created_at"`
}

func ToCertificateResponse(c *Certificate, loc *time.Location) CertificateResponse {
	return CertificateResponse{
		ID:        c.ID,
		Month:     c.Month.Format(time.DateOnly),
		Client:    c.Client,
		Project:   c.Project,
		Earned:    c.Earned,
		CreatedAt: c.CreatedAt.In(loc),
	}
}

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

func (h *Handler) RegisterRoutes(r chi.Router, guards ...func(http.Handler) http.Handler) {
	r.Route("/certificates", func(r chi.Router) {
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
	certs, err := h.service.ListOwned(r.Context(), sess, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	items := make([]CertificateResponse, 0, len(certs))
	for i := range certs {
		items = append(items, ToCertificateResponse(&certs[i], h.loc))
	}
	core.List(w, items, len(items), limit)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		core.Unauthorized(w, "")
		return
	}

	var req CreateCertificateRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.JSONError(w, core.ValidationDetails(err))
		return
	}

	c, err := h.service.Create(r.Context(), sess, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, ToCertificateResponse(c, h.loc))
}
