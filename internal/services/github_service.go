package services

import (
	"context"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/roastivator/roastivator/internal/models"
	"github.com/roastivator/roastivator/pkg/config"
)

// GitHubFetcher is the data-source contract the snapshot pipeline depends on.
// Every call returns the rate-limit accounting alongside its payload; failures
// carry it inside the returned *FetchError.
type GitHubFetcher interface {
	FetchProfile(ctx context.Context, username string) (*models.Profile, *RateLimit, error)
	FetchRepositories(ctx context.Context, username string) ([]models.Repository, *RateLimit, error)
	FetchCommits(ctx context.Context, username, repoName string) ([]models.Commit, *RateLimit, error)
}

// GitHubService talks to the GitHub REST API through go-github, throttled by a
// local limiter so an unauthenticated deployment stays inside its hourly budget
type GitHubService struct {
	client            *github.Client
	limiter           *rate.Limiter
	maxReposPerPage   int
	maxCommitsPerRepo int
}

// NewGitHubService creates a GitHub service from the application configuration.
// A GITHUB_TOKEN raises the quota; without one the public 60/hour budget applies.
func NewGitHubService(cfg *config.Config) *GitHubService {
	var client *github.Client
	if cfg.GitHub.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHub.Token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	} else {
		client = github.NewClient(nil)
	}
	client.UserAgent = cfg.GitHub.UserAgent

	interval := time.Hour / time.Duration(max(cfg.GitHub.RequestsPerHour, 1))

	return &GitHubService{
		client:            client,
		limiter:           rate.NewLimiter(rate.Every(interval), cfg.GitHub.BurstLimit),
		maxReposPerPage:   cfg.Roast.MaxReposToAnalyze,
		maxCommitsPerRepo: cfg.Roast.MaxCommitsPerRepo,
	}
}

// FetchProfile retrieves the public profile for a username
func (s *GitHubService) FetchProfile(ctx context.Context, username string) (*models.Profile, *RateLimit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, newNetworkError(err)
	}

	user, resp, err := s.client.Users.Get(ctx, username)
	rl := rateLimitFromResponse(resp)
	if err != nil {
		return nil, rl, classifyError(err, resp, "", rl)
	}

	profile := &models.Profile{
		Login:       user.GetLogin(),
		Name:        user.Name,
		Bio:         user.Bio,
		Location:    user.Location,
		Blog:        user.GetBlog(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   user.GetCreatedAt().Time,
	}
	return profile, rl, nil
}

// FetchRepositories retrieves the user's repositories, most recently updated first
func (s *GitHubService) FetchRepositories(ctx context.Context, username string) ([]models.Repository, *RateLimit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, newNetworkError(err)
	}

	opt := &github.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: s.maxReposPerPage},
	}

	repos, resp, err := s.client.Repositories.List(ctx, username, opt)
	rl := rateLimitFromResponse(resp)
	if err != nil {
		return nil, rl, classifyError(err, resp, "", rl)
	}

	result := make([]models.Repository, 0, len(repos))
	for _, repo := range repos {
		result = append(result, models.Repository{
			Name:        repo.GetName(),
			FullName:    repo.GetFullName(),
			Description: repo.Description,
			Fork:        repo.GetFork(),
			Size:        repo.GetSize(),
			Stars:       repo.GetStargazersCount(),
			UpdatedAt:   repo.GetUpdatedAt().Time,
			Owner:       repo.GetOwner().GetLogin(),
		})
	}
	return result, rl, nil
}

// FetchCommits retrieves the most recent commits of one repository, newest first
func (s *GitHubService) FetchCommits(ctx context.Context, username, repoName string) ([]models.Commit, *RateLimit, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, nil, newNetworkError(err)
	}

	opt := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: s.maxCommitsPerRepo},
	}

	commits, resp, err := s.client.Repositories.ListCommits(ctx, username, repoName, opt)
	rl := rateLimitFromResponse(resp)
	if err != nil {
		return nil, rl, classifyError(err, resp, repoName, rl)
	}

	result := make([]models.Commit, 0, len(commits))
	for _, commit := range commits {
		result = append(result, models.Commit{
			SHA:        commit.GetSHA(),
			Message:    commit.GetCommit().GetMessage(),
			AuthorDate: commit.GetCommit().GetAuthor().GetDate().Time,
			RepoName:   repoName,
		})
	}
	return result, rl, nil
}

// rateLimitFromResponse extracts quota accounting from a go-github response
func rateLimitFromResponse(resp *github.Response) *RateLimit {
	if resp == nil {
		return nil
	}
	return &RateLimit{
		Limit:     resp.Rate.Limit,
		Remaining: resp.Rate.Remaining,
		Reset:     resp.Rate.Reset.Unix(),
		Used:      resp.Rate.Limit - resp.Rate.Remaining,
	}
}

// classifyError maps a go-github error to a FetchError with the rate-limit
// metadata attached
func classifyError(err error, resp *github.Response, repoName string, rl *RateLimit) error {
	if resp != nil {
		return newFetchError(resp.StatusCode, repoName, rl)
	}
	return newNetworkError(err)
}
