package models

import (
	"strings"
	"time"
)

// Commit represents a single commit sampled from one of the analyzed repositories.
// RepoName records which repository contributed it; the association is made by the
// snapshot pipeline, not by the GitHub API response.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	AuthorDate time.Time `json:"author_date"`
	RepoName   string    `json:"repo_name"`
}

// Subject returns the first line of the commit message
func (c *Commit) Subject() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}
