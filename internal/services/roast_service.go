package services

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/roastivator/roastivator/internal/models"
	"github.com/roastivator/roastivator/pkg/config"
)

const (
	minRoastScore = 1
	maxRoastScore = 10
)

// RoastService classifies a snapshot against the pattern rule set and produces
// the critique report. The random source used for overall-roast template
// selection is injected so callers (and tests) can seed it.
type RoastService struct {
	cfg     config.RoastConfig
	metrics *MetricsService
	rng     *rand.Rand
}

// NewRoastService creates a roast service. A nil rng falls back to a
// time-seeded source.
func NewRoastService(cfg config.RoastConfig, metrics *MetricsService, rng *rand.Rand) *RoastService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RoastService{
		cfg:     cfg,
		metrics: metrics,
		rng:     rng,
	}
}

// GenerateRoast analyzes a snapshot and produces the full critique report.
// Easter-egg identities short-circuit classification entirely; every other
// report carries a score clamped to [1,10].
func (s *RoastService) GenerateRoast(snapshot *models.Snapshot) *models.RoastReport {
	now := time.Now()
	report := models.NewRoastReport()
	report.Metrics = s.metrics.Compute(snapshot, now)

	if s.cfg.EnableEasterEggs {
		if egg, ok := easterEggs[strings.ToLower(snapshot.Profile.Login)]; ok {
			report.OverallRoast = egg.Roast
			report.Score = egg.Score
			return report
		}
	}

	commits := snapshot.Commits
	repos := snapshot.Repositories
	subjects := make([]string, len(commits))
	for i, commit := range commits {
		subjects[i] = commit.Subject()
	}

	score := 0

	// Lazy commit patterns: any match produces a finding and adds severity
	for _, rule := range lazyCommitPatterns {
		count := countMatches(rule.Pattern, subjects)
		if count > 0 {
			percentage := int(math.Round(float64(count) / float64(len(subjects)) * 100))
			report.CommitMessageRoasts = append(report.CommitMessageRoasts, commitRoastText(rule.Source, count, percentage))
			score += rule.Severity
		}
	}

	// Professional commit patterns only ever lower the score, and silently:
	// no finding is generated for them
	for _, rule := range professionalCommitPatterns {
		count := countMatches(rule.Pattern, subjects)
		if float64(count) > float64(len(subjects))*0.3 {
			score += rule.Severity
		}
	}

	// Emoji usage over the analyzed commit sample. The threshold compares the
	// raw ratio; the finding text shows the rounded percentage.
	if emojiRatio(commits)*100 > 30 {
		report.EmojiRoasts = append(report.EmojiRoasts, fmt.Sprintf(
			"%d%% of your commits contain emojis. This isn't Instagram, it's a professional development platform. Save the 🔥💯✨ for your personal blog.",
			report.Metrics.EmojiUsagePercentage))
		score += 2
	}

	overusedCount := 0
	for _, commit := range commits {
		overusedCount += len(overusedEmojiPattern.FindAllString(commit.Message, -1))
	}
	if overusedCount > 10 {
		report.EmojiRoasts = append(report.EmojiRoasts, fmt.Sprintf(
			"%d rocket ships and fire emojis? Your commit history reads like a motivational poster made by someone having a breakdown.",
			overusedCount))
		score++
	}

	// Repository naming
	suspiciousCount := 0
	for _, repo := range repos {
		if suspiciousRepoPattern.MatchString(repo.Name) {
			suspiciousCount++
		}
	}
	if float64(suspiciousCount) > float64(len(repos))*0.4 {
		report.RepositoryRoasts = append(report.RepositoryRoasts, fmt.Sprintf(
			"%d repos with names like \"test\", \"demo\", or \"practice\"? Your GitHub looks like a computer science homework folder that never graduated.",
			suspiciousCount))
		score += 2
	}

	// Contribution recency, relative to the moment of analysis
	recentCount := countRecentCommits(commits, now)
	age := report.Metrics.AccountAgeYears
	if recentCount == 0 && age > 0.5 {
		report.ContributionRoasts = append(report.ContributionRoasts,
			"No commits in the last 3 months? Your GitHub graph looks like a flatline monitor. Are you sure you're still breathing?")
		score += 3
	} else if recentCount < 10 && age > 1 {
		report.ContributionRoasts = append(report.ContributionRoasts, fmt.Sprintf(
			"Only %d commits in 3 months? That's fewer commits than days in a week. Maybe try coding more than just when Mercury is in retrograde?",
			recentCount))
		score++
	}

	if report.Metrics.StarsReceived == 0 && len(repos) > 5 {
		report.ContributionRoasts = append(report.ContributionRoasts,
			"Zero stars across all your repositories. Even your mom hasn't starred your repos. That's not indie, that's just digital abandonment.")
		score += 2
	}

	if report.Metrics.ForkPercentage > 70 {
		report.ContributionRoasts = append(report.ContributionRoasts, fmt.Sprintf(
			"%d%% of your repos are forks. That's not contributing to open source, that's just digital hoarding with extra steps.",
			int(math.Round(report.Metrics.ForkPercentage))))
		score++
	}

	report.OverallRoast = s.overallRoast(&snapshot.Profile, report.Metrics)

	if score < minRoastScore {
		score = minRoastScore
	}
	if score > maxRoastScore {
		score = maxRoastScore
	}
	report.Score = score

	return report
}

// CategoryInsights computes the five secondary per-category scores on a 0-10
// scale. These supplement the report for display and never feed the main score.
func (s *RoastService) CategoryInsights(snapshot *models.Snapshot) map[models.RoastCategory]float64 {
	now := time.Now()
	return map[models.RoastCategory]float64{
		models.CategoryProfile:       profileInsight(&snapshot.Profile),
		models.CategoryCommits:       commitInsight(snapshot.Commits),
		models.CategoryContributions: contributionInsight(snapshot.Repositories, snapshot.Commits, now),
		models.CategoryEmojis:        emojiInsight(snapshot.Commits),
		models.CategoryRepositories:  repositoryInsight(snapshot.Repositories),
	}
}

// overallRoast picks the overall narrative. Zero-repo profiles get a fixed
// template; everyone else gets a uniform pick among three.
func (s *RoastService) overallRoast(profile *models.Profile, m models.Metrics) string {
	name := profile.DisplayName()
	ageYears := int(m.AccountAgeYears)

	if m.TotalRepos == 0 {
		plural := ""
		if ageYears > 1 {
			plural = "s"
		}
		return fmt.Sprintf(
			"%s has %d year%s on GitHub and ZERO public repos. That's not minimalism, that's just digital hoarding of potential.",
			name, ageYears, plural)
	}

	templates := []string{
		fmt.Sprintf(
			"%s has been on GitHub for %d years with %d repositories. That's roughly %.1f repos per year. I've seen glaciers move faster.",
			name, ageYears, m.TotalRepos, float64(m.TotalRepos)/math.Max(m.AccountAgeYears, 0.1)),
		fmt.Sprintf(
			"%s follows %d people but only has %d followers. That follow-to-follower ratio is worse than a spam bot. Maybe try writing code that people actually want to see?",
			name, profile.Following, profile.Followers),
		fmt.Sprintf(
			"%s has %d total stars across %d repositories. That's an average of %.1f stars per repo. Even tutorial repositories get more love.",
			name, m.StarsReceived, m.TotalRepos, float64(m.StarsReceived)/math.Max(float64(m.TotalRepos), 1)),
	}

	return templates[s.rng.Intn(len(templates))]
}

// commitRoastText renders the finding for one matched lazy rule. Four canonical
// patterns carry bespoke phrasing; the rest share a generic template.
func commitRoastText(source string, count, percentage int) string {
	switch source {
	case `^fix$|^fixed$|^fixes$`:
		return fmt.Sprintf("%d commits with just \"fix\" - The most intellectually bankrupt commit message in existence. What did you fix? Your breakfast? Your relationship with your parents?", count)
	case `^update$|^updated$`:
		return fmt.Sprintf("%d \"update\" commits - Ah yes, very descriptive. You updated something. Somewhere. Maybe. This is why documentation exists, genius.", count)
	case `^wip$|^work in progress$`:
		return fmt.Sprintf("%d \"WIP\" commits - Still committing work-in-progress? That's not version control, that's just broadcasting your inability to finish anything.", count)
	case `^oops$|^whoops$`:
		return fmt.Sprintf("%d \"oops\" commits - These suggest you treat Git like your personal diary of mistakes. Professional tip: test before you commit.", count)
	default:
		return fmt.Sprintf("%d lazy commit messages (%d%% of your commits) - Your future self is crying.", count, percentage)
	}
}

func countMatches(pattern *regexp.Regexp, subjects []string) int {
	count := 0
	for _, subject := range subjects {
		if pattern.MatchString(subject) {
			count++
		}
	}
	return count
}

func countRecentCommits(commits []models.Commit, now time.Time) int {
	threshold := now.AddDate(0, -3, 0)
	count := 0
	for _, commit := range commits {
		if commit.AuthorDate.After(threshold) {
			count++
		}
	}
	return count
}

func profileInsight(profile *models.Profile) float64 {
	score := 5.0
	if profile.Bio == nil || *profile.Bio == "" {
		score++
	}
	if profile.Location == nil || *profile.Location == "" {
		score += 0.5
	}
	if profile.Blog == "" {
		score += 0.5
	}
	if profile.PublicRepos == 0 {
		score += 3
	}
	if profile.Followers == 0 && profile.PublicRepos > 5 {
		score += 2
	}
	return math.Min(score, 10)
}

func commitInsight(commits []models.Commit) float64 {
	if len(commits) == 0 {
		return 8
	}
	lazyCount := 0
	for _, commit := range commits {
		if lazySubjectPattern.MatchString(commit.Subject()) {
			lazyCount++
		}
	}
	return math.Min(5+float64(lazyCount)/float64(len(commits))*5, 10)
}

func contributionInsight(repos []models.Repository, commits []models.Commit, now time.Time) float64 {
	score := 3.0

	forks := 0
	for _, repo := range repos {
		if repo.Fork {
			forks++
		}
	}
	forkPercentage := float64(forks) / math.Max(float64(len(repos)), 1) * 100
	if forkPercentage > 70 {
		score += 2
	}

	recentCount := countRecentCommits(commits, now)
	if recentCount == 0 {
		score += 3
	} else if recentCount < 10 {
		score++
	}

	return math.Min(score, 10)
}

func emojiInsight(commits []models.Commit) float64 {
	if len(commits) == 0 {
		return 5
	}
	percentage := emojiRatio(commits) * 100
	switch {
	case percentage > 50:
		return 9
	case percentage > 30:
		return 7
	case percentage > 15:
		return 5
	default:
		return 3
	}
}

func repositoryInsight(repos []models.Repository) float64 {
	if len(repos) == 0 {
		return 10
	}

	score := 3.0

	withoutDescription := 0
	totalStars := 0
	suspiciousCount := 0
	for _, repo := range repos {
		if !repo.HasDescription() {
			withoutDescription++
		}
		totalStars += repo.Stars
		if suspiciousRepoPattern.MatchString(repo.Name) {
			suspiciousCount++
		}
	}

	if float64(withoutDescription) > float64(len(repos))*0.6 {
		score += 2
	}
	if totalStars == 0 && len(repos) > 5 {
		score += 2
	}
	if float64(suspiciousCount) > float64(len(repos))*0.4 {
		score++
	}

	return math.Min(score, 10)
}
