// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object from the request body, rejecting
// unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// Limits bounds the fixed row LIMIT used by list endpoints.
type Limits struct {
	Default int
	Max     int
}

func (l Limits) Clamp(n int) int {
	if n < 1 {
		return l.Default
	}
	if n > l.Max {
		return l.Max
	}
	return n
}

func (l Limits) FromRequest(r *http.Request) int {
	val := r.URL.Query().Get("limit")
	if val == "" {
		return l.Default
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return l.Default
	}

	return l.Clamp(parsed)
}
