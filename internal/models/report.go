package models

import (
	"time"

	"github.com/google/uuid"
)

// Metrics holds the derived statistics for one analysis. Recomputed on every
// call, never persisted. AccountAgeYears stays fractional; display code floors it.
type Metrics struct {
	TotalRepos                 int     `json:"total_repos"`
	TotalCommits               int     `json:"total_commits"`
	AccountAgeYears            float64 `json:"account_age_years"`
	FollowerRatio              float64 `json:"follower_ratio"`
	EmojiUsagePercentage       int     `json:"emoji_usage_percentage"`
	AverageCommitMessageLength int     `json:"average_commit_message_length"`
	ForkPercentage             float64 `json:"fork_percentage"`
	StarsReceived              int     `json:"stars_received"`
}

// RoastReport is the full critique produced for one snapshot. Created fresh per
// analysis and never mutated afterwards.
type RoastReport struct {
	ID                  string    `json:"id"`
	OverallRoast        string    `json:"overall_roast"`
	CommitMessageRoasts []string  `json:"commit_message_roasts"`
	RepositoryRoasts    []string  `json:"repository_roasts"`
	ContributionRoasts  []string  `json:"contribution_roasts"`
	EmojiRoasts         []string  `json:"emoji_roasts"`
	Score               int       `json:"score"`
	Metrics             Metrics   `json:"metrics"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// NewRoastReport creates an empty report with a generated UUID
func NewRoastReport() *RoastReport {
	return &RoastReport{
		ID:                  uuid.New().String(),
		CommitMessageRoasts: []string{},
		RepositoryRoasts:    []string{},
		ContributionRoasts:  []string{},
		EmojiRoasts:         []string{},
		GeneratedAt:         time.Now(),
	}
}

// Severity buckets a roast score for presentation
type Severity string

const (
	SeverityMild    Severity = "mild"
	SeverityMedium  Severity = "medium"
	SeveritySpicy   Severity = "spicy"
	SeverityNuclear Severity = "nuclear"
)

// SeverityForScore maps a score to its severity bucket.
// Boundaries are at 3, 5 and 7.
func SeverityForScore(score int) Severity {
	switch {
	case score <= 3:
		return SeverityMild
	case score <= 5:
		return SeverityMedium
	case score <= 7:
		return SeveritySpicy
	default:
		return SeverityNuclear
	}
}

// RoastCategory identifies one of the secondary insight categories
type RoastCategory string

const (
	CategoryProfile       RoastCategory = "profile"
	CategoryCommits       RoastCategory = "commits"
	CategoryContributions RoastCategory = "contributions"
	CategoryEmojis        RoastCategory = "emojis"
	CategoryRepositories  RoastCategory = "repositories"
)
