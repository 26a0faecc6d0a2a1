package model

import (
	"sort"
	"time"
)

// Todo is the domain model for a task as the backend returns it.
type Todo struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	ProjectName *string `json:"project_name"`
	Completed   bool    `json:"completed"`
}

// DeadlineDate returns the calendar-date part of the deadline, or "".
// The backend may return either a bare date or a full timestamp.
func (t Todo) DeadlineDate() string {
	if t.Deadline == nil || *t.Deadline == "" {
		return ""
	}
	s := *t.Deadline
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

// Project returns the project name, or "" when unassigned.
func (t Todo) Project() string {
	if t.ProjectName == nil {
		return ""
	}
	return *t.ProjectName
}

// ProjectNames derives the distinct non-empty project names from the
// currently loaded todos, sorted lexicographically.
func ProjectNames(todos []Todo) []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range todos {
		name := t.Project()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const deadlineLayout = "2006-01-02"

// ValidDeadline reports whether s is a strict YYYY-MM-DD calendar date.
func ValidDeadline(s string) bool {
	if len(s) != len(deadlineLayout) {
		return false
	}
	_, err := time.Parse(deadlineLayout, s)
	return err == nil
}
