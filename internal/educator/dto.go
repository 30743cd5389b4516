// AngelaMos | 2026
// dto.go

package educator

import (
	"time"

	"github.com/carterperez-dev/yassaka/internal/money"
)

// UpsertProfileRequest leaves optional fields empty rather than null; an
// empty optional field clears the stored value.
type UpsertProfileRequest struct {
	Company      string `json:"company"       validate:"required"`
	MeetingDate  string `json:"meeting_date"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	Project      string `json:"project"`
	ProjectValue string `json:"project_value"`
	Certificates string `json:"certificates"`
	State        string `json:"state"         validate:"required"`
	EducatorName string `json:"educator_name" validate:"required"`
}

type ProfileResponse struct {
	ID                  int64     `json:"id"`
	Owner               string    `json:"owner"`
	Company             string    `json:"company"`
	MeetingDate         *string   `json:"meeting_date"`
	ContactName         *string   `json:"contact_name"`
	ContactPhone        *string   `json:"contact_phone"`
	Project             *string   `json:"project"`
	ProjectValue        *string   `json:"project_value"`
	ProjectValueDisplay *string   `json:"project_value_display"`
	Certificates        *string   `json:"certificates"`
	State               string    `json:"state"`
	EducatorName        string    `json:"educator_name"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type UpsertResponse struct {
	Profile ProfileResponse `json:"profile"`
	Created bool            `json:"created"`
}

func ToProfileResponse(p *Profile, loc *time.Location) ProfileResponse {
	resp := ProfileResponse{
		ID:           p.ID,
		Owner:        p.Owner,
		Company:      p.Company,
		ContactName:  p.ContactName,
		ContactPhone: p.ContactPhone,
		Project:      p.Project,
		Certificates: p.Certificates,
		State:        p.State,
		EducatorName: p.EducatorName,
		CreatedAt:    p.CreatedAt.In(loc),
		UpdatedAt:    p.UpdatedAt.In(loc),
	}

	if p.MeetingDate != nil {
		d := p.MeetingDate.Format(time.DateOnly)
		resp.MeetingDate = &d
	}

	if p.ProjectValue.Valid {
		canonical := money.Canonical(p.ProjectValue.Decimal)
		display := money.FormatBRL(p.ProjectValue.Decimal)
		resp.ProjectValue = &canonical
		resp.ProjectValueDisplay = &display
	}

	return resp
}

func ToProfileResponseList(profiles []Profile, loc *time.Location) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, ToProfileResponse(&profiles[i], loc))
	}
	return responses
}
