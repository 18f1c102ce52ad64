package services

import (
	"math"
	"time"

	"github.com/roastivator/roastivator/internal/models"
)

// Hours in a Julian year
const julianYearHours = 365.25 * 24

// MetricsService derives numeric facts from a snapshot. Pure computation: no
// fallible operations, every denominator floored at 1.
type MetricsService struct{}

func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// Compute derives the metrics block for a snapshot as of the given moment
func (s *MetricsService) Compute(snapshot *models.Snapshot, now time.Time) models.Metrics {
	profile := snapshot.Profile
	repos := snapshot.Repositories
	commits := snapshot.Commits

	forks := 0
	stars := 0
	for _, repo := range repos {
		if repo.Fork {
			forks++
		}
		stars += repo.Stars
	}

	messageLengthTotal := 0
	for _, commit := range commits {
		messageLengthTotal += len(commit.Message)
	}

	averageLength := 0
	if len(commits) > 0 {
		averageLength = int(math.Round(float64(messageLengthTotal) / float64(len(commits))))
	}

	return models.Metrics{
		TotalRepos:                 len(repos),
		TotalCommits:               len(commits),
		AccountAgeYears:            now.Sub(profile.CreatedAt).Hours() / julianYearHours,
		FollowerRatio:              float64(profile.Followers) / math.Max(float64(profile.Following), 1),
		EmojiUsagePercentage:       int(math.Round(emojiRatio(commits) * 100)),
		AverageCommitMessageLength: averageLength,
		ForkPercentage:             float64(forks) / math.Max(float64(len(repos)), 1) * 100,
		StarsReceived:              stars,
	}
}

// emojiRatio returns the unrounded fraction of analyzed commits whose message
// contains at least one emoji. Threshold checks use this raw value; the metrics
// block reports it rounded.
func emojiRatio(commits []models.Commit) float64 {
	if len(commits) == 0 {
		return 0
	}
	matched := 0
	for _, commit := range commits {
		if emojiPattern.MatchString(commit.Message) {
			matched++
		}
	}
	return float64(matched) / float64(len(commits))
}
