// AngelaMos | 2026
// dto.go

package proposal

import (
	"time"

	"github.com/carterperez-dev/yassaka/internal/money"
)

// CreateProposalRequest carries the value as text so "1.234,56" and
// "R$ 10" reach the monetary parser untouched.
type CreateProposalRequest struct {
	Client      string `json:"client"      validate:"required"`
	Product     string `json:"product"     validate:"required"`
	Value       string `json:"value"       validate:"required"`
	Classes     int    `json:"classes"`
	Temperature string `json:"temperature" validate:"required"`
	Head        string `json:"head"`
}

type TemperatureResponse struct {
	Code       string `json:"code"`
	Label      string `json:"label"`
	LocalLabel string `json:"local_label"`
}

type ProposalResponse struct {
	ID           int64               `json:"id"`
	Client       string              `json:"client"`
	Product      string              `json:"product"`
	Value        string              `json:"value"`
	ValueDisplay string              `json:"value_display"`
	Classes      int                 `json:"classes"`
	Head         string              `json:"head"`
	Temperature  TemperatureResponse `json:"temperature"`
	CreatedAt    time.Time           `json:"created_at"`
}

func ToTemperatureResponse(t Temperature) TemperatureResponse {
	return TemperatureResponse{
		Code:       string(t),
		Label:      t.Label(),
		LocalLabel: t.LocalLabel(),
	}
}

func ToProposalResponse(p *Proposal, loc *time.Location) ProposalResponse {
	return ProposalResponse{
		ID:           p.ID,
		Client:       p.Client,
		Product:      p.Product,
		Value:        money.Canonical(p.Value),
		ValueDisplay: money.FormatBRL(p.Value),
		Classes:      p.Classes,
		Head:         p.Head,
		Temperature:  ToTemperatureResponse(p.Temperature),
		CreatedAt:    p.CreatedAt.In(loc),
	}
}

func ToProposalResponseList(proposals []Proposal, loc *time.Location) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(proposals))
	for i := range proposals {
		responses = append(responses, ToProposalResponse(&proposals[i], loc))
	}
	return responses
}
