// AngelaMos | 2026
// dto.go

package activity

import (
	"time"
)

const DateLayout = time.DateOnly

type CreateRecordRequest struct {
	Date        string `json:"date"        validate:"required"`
	Client      string `json:"client"      validate:"required"`
	Responsible string `json:"responsible" validate:"required"`
}

type RecordResponse struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	Date        string    `json:"date"`
	Client      string    `json:"client"`
	Responsible string    `json:"responsible"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToRecordResponse(r *Record, loc *time.Location) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		Owner:       r.Owner,
		Date:        r.Date.Format(DateLayout),
		Client:      r.Client,
		Responsible: r.Responsible,
		CreatedAt:   r.CreatedAt.In(loc),
	}
}

func ToRecordResponseList(records []Record, loc *time.Location) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToRecordResponse(&records[i], loc))
	}
	return responses
}
