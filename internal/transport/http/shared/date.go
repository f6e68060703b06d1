package shared

import (
	"net/http"
	"strings"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// OptionalDateQuery reads an optional date query parameter. Invalid values are
// reported to v and yield nil.
func OptionalDateQuery(r *http.Request, v *Validator, field string) *time.Time {
	raw := strings.TrimSpace(r.URL.Query().Get(field))
	if raw == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	return &parsed
}
