package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roastivator/roastivator/internal/models"
	"github.com/roastivator/roastivator/internal/repositories"
	"github.com/roastivator/roastivator/pkg/logger"
)

// Commit fan-out is capped regardless of how many repositories survive filtering
const maxConcurrentRepoFetches = 5

// SnapshotService assembles a point-in-time snapshot of a profile: the profile
// itself, its repository list, and a bounded commit sample from the most recently
// updated repositories.
type SnapshotService struct {
	fetcher  GitHubFetcher
	cache    *repositories.SnapshotCacheRepository
	cacheTTL time.Duration
}

// NewSnapshotService creates a snapshot service. The cache is optional; pass nil
// to fetch fresh on every call.
func NewSnapshotService(fetcher GitHubFetcher, cache *repositories.SnapshotCacheRepository, cacheTTL time.Duration) *SnapshotService {
	return &SnapshotService{
		fetcher:  fetcher,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Assemble fetches everything needed to roast a username. The profile and the
// repository list are fetched concurrently and both must succeed; per-repository
// commit fetches are isolated, so one failing repository only costs its commits.
// The returned RateLimit reflects the most exhausted quota state observed.
func (s *SnapshotService) Assemble(ctx context.Context, username string) (*models.Snapshot, *RateLimit, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(username, s.cacheTTL)
		if err != nil {
			logger.WithError(err).Warnf("Snapshot cache lookup failed for %s", username)
		}
		if cached != nil {
			logger.WithField("username", username).Infof("Snapshot served from cache")
			return cached, nil, nil
		}
	}

	var (
		wg         sync.WaitGroup
		profile    *models.Profile
		profileRL  *RateLimit
		profileErr error
		repos      []models.Repository
		reposRL    *RateLimit
		reposErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileRL, profileErr = s.fetcher.FetchProfile(ctx, username)
	}()
	go func() {
		defer wg.Done()
		repos, reposRL, reposErr = s.fetcher.FetchRepositories(ctx, username)
	}()
	wg.Wait()

	if profileErr != nil {
		return nil, profileRL, profileErr
	}
	if reposErr != nil {
		return nil, reposRL, reposErr
	}

	topRepos := selectTopRepositories(repos)

	commitSlots := make([][]models.Commit, len(topRepos))
	rateSlots := make([]*RateLimit, len(topRepos))

	var commitWG sync.WaitGroup
	for i, repo := range topRepos {
		commitWG.Add(1)
		go func(i int, repo models.Repository) {
			defer commitWG.Done()
			commits, rl, err := s.fetcher.FetchCommits(ctx, username, repo.Name)
			rateSlots[i] = rl
			if err != nil {
				// Absorbed: a failed commit fetch degrades to an empty
				// contribution for that repository only
				logger.WithFields(logrus.Fields{
					"username":   username,
					"repository": repo.Name,
				}).WithError(err).Warnf("Commit fetch failed, continuing without this repository")
				return
			}
			commitSlots[i] = commits
		}(i, repo)
	}
	commitWG.Wait()

	var commits []models.Commit
	for _, slot := range commitSlots {
		commits = append(commits, slot...)
	}

	snapshot := &models.Snapshot{
		Profile:      *profile,
		Repositories: repos,
		Commits:      commits,
		FetchedAt:    time.Now(),
	}

	if s.cache != nil {
		if err := s.cache.Set(username, snapshot); err != nil {
			logger.WithError(err).Warnf("Snapshot cache write failed for %s", username)
		}
	}

	return snapshot, lowestRemaining(append(rateSlots, profileRL, reposRL)), nil
}

// selectTopRepositories filters out forks and empty repositories, orders by most
// recent update and keeps the top five
func selectTopRepositories(repos []models.Repository) []models.Repository {
	filtered := make([]models.Repository, 0, len(repos))
	for _, repo := range repos {
		if !repo.Fork && repo.Size > 0 {
			filtered = append(filtered, repo)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].UpdatedAt.After(filtered[j].UpdatedAt)
	})

	if len(filtered) > maxConcurrentRepoFetches {
		filtered = filtered[:maxConcurrentRepoFetches]
	}
	return filtered
}

// lowestRemaining picks the most exhausted quota observation, which is the most
// current view of the remaining budget
func lowestRemaining(limits []*RateLimit) *RateLimit {
	var current *RateLimit
	for _, rl := range limits {
		if rl == nil {
			continue
		}
		if current == nil || rl.Remaining < current.Remaining {
			current = rl
		}
	}
	return current
}
