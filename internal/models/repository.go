package models

import (
	"strings"
	"time"
)

// Repository represents a GitHub repository owned by the analyzed profile
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description *string   `json:"description"`
	Fork        bool      `json:"fork"`
	Size        int       `json:"size"`
	Stars       int       `json:"stargazers_count"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       string    `json:"owner"`
}

// HasDescription reports whether the repository carries a non-blank description.
// Whitespace-only descriptions count as missing.
func (r *Repository) HasDescription() bool {
	return r.Description != nil && strings.TrimSpace(*r.Description) != ""
}
