package handler

import (
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDateRange reads from/to query params and validates ordering.
func parseDateRange(r *http.Request) (*time.Time, *time.Time, bool) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return nil, nil, false
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return nil, nil, false
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, false
	}
	return from, to, true
}
