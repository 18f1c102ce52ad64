package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/roastivator/roastivator/internal/models"
	"github.com/roastivator/roastivator/internal/repositories"
)

// fakeFetcher implements GitHubFetcher with canned responses
type fakeFetcher struct {
	profile    *models.Profile
	profileErr error
	repos      []models.Repository
	reposErr   error
	commits    map[string][]models.Commit
	commitErrs map[string]error

	mu          sync.Mutex
	commitCalls []string
}

func (f *fakeFetcher) FetchProfile(ctx context.Context, username string) (*models.Profile, *RateLimit, error) {
	if f.profileErr != nil {
		return nil, nil, f.profileErr
	}
	return f.profile, &RateLimit{Limit: 60, Remaining: 59}, nil
}

func (f *fakeFetcher) FetchRepositories(ctx context.Context, username string) ([]models.Repository, *RateLimit, error) {
	if f.reposErr != nil {
		return nil, nil, f.reposErr
	}
	return f.repos, &RateLimit{Limit: 60, Remaining: 58}, nil
}

func (f *fakeFetcher) FetchCommits(ctx context.Context, username, repoName string) ([]models.Commit, *RateLimit, error) {
	f.mu.Lock()
	f.commitCalls = append(f.commitCalls, repoName)
	f.mu.Unlock()

	if err, ok := f.commitErrs[repoName]; ok {
		return nil, &RateLimit{Limit: 60, Remaining: 50}, err
	}
	return f.commits[repoName], &RateLimit{Limit: 60, Remaining: 55}, nil
}

func testProfile() *models.Profile {
	return &models.Profile{
		Login:     "someuser",
		CreatedAt: time.Now().AddDate(-2, 0, 0),
	}
}

// testRepos builds n non-fork repositories, most recently updated first
func testRepos(n int) []models.Repository {
	now := time.Now()
	repos := make([]models.Repository, n)
	for i := range repos {
		repos[i] = models.Repository{
			Name:      fmt.Sprintf("repo%d", i),
			Size:      100,
			UpdatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
	}
	return repos
}

// testCommits builds count commits tagged with the repo name
func testCommits(repoName string, count int) []models.Commit {
	commits := make([]models.Commit, count)
	for i := range commits {
		commits[i] = models.Commit{
			SHA:        fmt.Sprintf("%s-%d", repoName, i),
			Message:    "implement parser improvements",
			AuthorDate: time.Now().AddDate(0, 0, -i),
			RepoName:   repoName,
		}
	}
	return commits
}

func TestAssembleFullSuccess(t *testing.T) {
	repos := testRepos(5)
	commits := make(map[string][]models.Commit)
	for _, repo := range repos {
		commits[repo.Name] = testCommits(repo.Name, 10)
	}

	fetcher := &fakeFetcher{
		profile: testProfile(),
		repos:   repos,
		commits: commits,
	}
	service := NewSnapshotService(fetcher, nil, 0)

	snapshot, rateLimit, err := service.Assemble(context.Background(), "someuser")

	assert.NoError(t, err)
	assert.NotNil(t, snapshot)
	assert.Len(t, snapshot.Commits, 50)
	assert.NotNil(t, rateLimit)

	// Commit order follows repository recency order, then source order within
	// each repository, regardless of fetch completion order
	for i, commit := range snapshot.Commits {
		expectedRepo := fmt.Sprintf("repo%d", i/10)
		expectedSHA := fmt.Sprintf("%s-%d", expectedRepo, i%10)
		assert.Equal(t, expectedSHA, commit.SHA)
	}
}

func TestAssembleRepositoryFetchFailureAborts(t *testing.T) {
	reposErr := newFetchError(404, "", nil)
	fetcher := &fakeFetcher{
		profile:  testProfile(),
		reposErr: reposErr,
	}
	service := NewSnapshotService(fetcher, nil, 0)

	snapshot, _, err := service.Assemble(context.Background(), "someuser")

	assert.Nil(t, snapshot)
	assert.Equal(t, reposErr, err)
	// No commit fetches are attempted once the repository list failed
	assert.Empty(t, fetcher.commitCalls)
}

func TestAssembleProfileFetchFailureAborts(t *testing.T) {
	profileErr := newFetchError(404, "", nil)
	fetcher := &fakeFetcher{
		profileErr: profileErr,
		repos:      testRepos(3),
		commits:    map[string][]models.Commit{},
	}
	service := NewSnapshotService(fetcher, nil, 0)

	snapshot, _, err := service.Assemble(context.Background(), "someuser")

	assert.Nil(t, snapshot)
	assert.Equal(t, profileErr, err)
	assert.Empty(t, fetcher.commitCalls)
}

func TestAssembleCommitFetchFailureIsIsolated(t *testing.T) {
	repos := testRepos(5)
	commits := make(map[string][]models.Commit)
	for _, repo := range repos {
		commits[repo.Name] = testCommits(repo.Name, 10)
	}

	fetcher := &fakeFetcher{
		profile: testProfile(),
		repos:   repos,
		commits: commits,
		commitErrs: map[string]error{
			"repo2": newFetchError(500, "repo2", nil),
		},
	}
	service := NewSnapshotService(fetcher, nil, 0)

	snapshot, _, err := service.Assemble(context.Background(), "someuser")

	assert.NoError(t, err)
	assert.Len(t, snapshot.Commits, 40)

	// repo2 contributes nothing; the others keep their order
	for _, commit := range snapshot.Commits {
		assert.NotEqual(t, "repo2", commit.RepoName)
	}
	expectedOrder := []string{"repo0", "repo1", "repo3", "repo4"}
	for i, commit := range snapshot.Commits {
		assert.Equal(t, expectedOrder[i/10], commit.RepoName)
	}
}

func TestAssembleFiltersAndCapsRepositories(t *testing.T) {
	now := time.Now()
	repos := testRepos(7)
	repos = append(repos,
		models.Repository{Name: "a-fork", Fork: true, Size: 100, UpdatedAt: now},
		models.Repository{Name: "empty", Size: 0, UpdatedAt: now},
	)

	commits := make(map[string][]models.Commit)
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("repo%d", i)
		commits[name] = testCommits(name, 2)
	}

	fetcher := &fakeFetcher{
		profile: testProfile(),
		repos:   repos,
		commits: commits,
	}
	service := NewSnapshotService(fetcher, nil, 0)

	snapshot, _, err := service.Assemble(context.Background(), "someuser")

	assert.NoError(t, err)
	// The snapshot keeps the full repository list for the metrics
	assert.Len(t, snapshot.Repositories, 9)

	// Commits come only from the five most recently updated eligible repos
	assert.Len(t, fetcher.commitCalls, 5)
	assert.NotContains(t, fetcher.commitCalls, "a-fork")
	assert.NotContains(t, fetcher.commitCalls, "empty")
	assert.NotContains(t, fetcher.commitCalls, "repo5")
	assert.NotContains(t, fetcher.commitCalls, "repo6")
	assert.Len(t, snapshot.Commits, 10)
}

func newTestCache(t *testing.T) *repositories.SnapshotCacheRepository {
	db, err := sql.Open("sqlite3", ":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE snapshot_cache (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		snapshot TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	)`)
	assert.NoError(t, err)

	return repositories.NewSnapshotCacheRepository(db)
}

func TestAssembleCacheHitSkipsFetcher(t *testing.T) {
	cache := newTestCache(t)
	cached := &models.Snapshot{
		Profile:   *testProfile(),
		FetchedAt: time.Now(),
	}
	assert.NoError(t, cache.Set("someuser", cached))

	fetcher := &fakeFetcher{
		profileErr: newFetchError(500, "", nil),
		reposErr:   newFetchError(500, "", nil),
	}
	service := NewSnapshotService(fetcher, cache, 5*time.Minute)

	snapshot, rateLimit, err := service.Assemble(context.Background(), "someuser")

	assert.NoError(t, err)
	assert.NotNil(t, snapshot)
	assert.Equal(t, "someuser", snapshot.Profile.Login)
	// A cache hit never touches the API, so no quota observation exists
	assert.Nil(t, rateLimit)
	assert.Empty(t, fetcher.commitCalls)
}

func TestAssembleStaleCacheEntryRefetches(t *testing.T) {
	cache := newTestCache(t)
	stale := &models.Snapshot{
		Profile:   models.Profile{Login: "olduser", CreatedAt: time.Now().AddDate(-2, 0, 0)},
		FetchedAt: time.Now().Add(-time.Hour),
	}
	assert.NoError(t, cache.Set("someuser", stale))

	repos := testRepos(1)
	fetcher := &fakeFetcher{
		profile: testProfile(),
		repos:   repos,
		commits: map[string][]models.Commit{
			"repo0": testCommits("repo0", 3),
		},
	}
	service := NewSnapshotService(fetcher, cache, 5*time.Minute)

	snapshot, _, err := service.Assemble(context.Background(), "someuser")

	assert.NoError(t, err)
	assert.Equal(t, []string{"repo0"}, fetcher.commitCalls)
	assert.Len(t, snapshot.Commits, 3)

	// The refetched snapshot replaces the stale entry
	refreshed, err := cache.Get("someuser", 5*time.Minute)
	assert.NoError(t, err)
	assert.NotNil(t, refreshed)
	assert.Equal(t, "someuser", refreshed.Profile.Login)
}

func TestSelectTopRepositoriesOrdering(t *testing.T) {
	now := time.Now()
	repos := []models.Repository{
		{Name: "old", Size: 10, UpdatedAt: now.AddDate(0, -6, 0)},
		{Name: "newest", Size: 10, UpdatedAt: now},
		{Name: "middle", Size: 10, UpdatedAt: now.AddDate(0, -1, 0)},
	}

	top := selectTopRepositories(repos)

	assert.Len(t, top, 3)
	assert.Equal(t, "newest", top[0].Name)
	assert.Equal(t, "middle", top[1].Name)
	assert.Equal(t, "old", top[2].Name)
}

func TestLowestRemaining(t *testing.T) {
	limits := []*RateLimit{
		nil,
		{Limit: 60, Remaining: 40},
		{Limit: 60, Remaining: 12},
		nil,
		{Limit: 60, Remaining: 55},
	}

	current := lowestRemaining(limits)
	assert.NotNil(t, current)
	assert.Equal(t, 12, current.Remaining)
}
