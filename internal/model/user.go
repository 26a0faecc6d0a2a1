package model

import (
	"math"
	"strings"
)

// Profile is the authenticated user as returned by /users/profile.
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Stats is the server-side completion summary from /users/stats/todos.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// ChartSlice is one segment of the completion distribution.
type ChartSlice struct {
	Label   string
	Value   int
	Percent float64 // one decimal place
}

// ChartSlices builds the completed/pending distribution, or nil when there
// is nothing to chart (total zero guards the division).
func ChartSlices(s Stats) []ChartSlice {
	if s.Total <= 0 {
		return nil
	}
	pct := func(v int) float64 {
		return math.Round(float64(v)/float64(s.Total)*1000) / 10
	}
	return []ChartSlice{
		{Label: "Completed", Value: s.Completed, Percent: pct(s.Completed)},
		{Label: "Pending", Value: s.Pending, Percent: pct(s.Pending)},
	}
}

// ValidEmail is a loose text@text.text check; real validation is the
// backend's job.
func ValidEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.ContainsAny(s, " \t")
}
