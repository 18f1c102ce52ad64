package models

import "time"

// Profile represents a public GitHub user profile at fetch time.
// Immutable once assembled into a Snapshot.
type Profile struct {
	Login       string    `json:"login"`
	Name        *string   `json:"name"`
	Bio         *string   `json:"bio"`
	Location    *string   `json:"location"`
	Blog        string    `json:"blog"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// DisplayName returns the profile's name, falling back to the login
func (p *Profile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Login
}
