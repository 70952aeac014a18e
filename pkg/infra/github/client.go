package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// maxPerPage is the GitHub API page size limit
const maxPerPage = 100

type config struct {
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
	baseURL        string
	transport      http.RoundTripper
}

// Option configures the GitHub client
type Option func(*config)

// WithToken authenticates with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithApp authenticates as a GitHub App installation
func WithApp(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

// WithBaseURL points the client at another API root (GitHub Enterprise, tests)
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithTransport sets the underlying HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

// Client reads commit data from the GitHub REST API
type Client struct {
	githubClient *github.Client
}

// NewClient creates a GitHub client. Without credentials it calls the API
// anonymously, which is subject to the low unauthenticated rate limit.
func NewClient(opts ...Option) (*Client, error) {
	cfg := &config{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := &http.Client{Transport: cfg.transport}

	if cfg.appID != 0 {
		if cfg.installationID == 0 || len(cfg.privateKey) == 0 {
			return nil, goerr.New("GitHub App installation ID and private key are required", goerr.V("app_id", cfg.appID))
		}

		itr, err := ghinstallation.New(cfg.transport, cfg.appID, cfg.installationID, cfg.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport", goerr.V("app_id", cfg.appID))
		}
		if cfg.baseURL != "" {
			itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
		}
		httpClient = &http.Client{Transport: itr}
	}

	githubClient := github.NewClient(httpClient)
	if cfg.token != "" && cfg.appID == 0 {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		u, err := url.Parse(cfg.baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("url", cfg.baseURL))
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		githubClient.BaseURL = u
	}

	return &Client{githubClient: githubClient}, nil
}

// ListRecentCommits returns author data of up to limit most recent commits
// on the default branch.
func (c *Client) ListRecentCommits(ctx context.Context, repo model.RepoRef, limit int) ([]model.CommitAuthor, error) {
	if limit <= 0 || limit > maxPerPage {
		return nil, goerr.New("commit limit out of range", goerr.V("limit", limit))
	}

	commits, resp, err := c.githubClient.Repositories.ListCommits(ctx, repo.Owner, repo.Repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list commits", goerr.V("repo", repo.FullName()))
	}

	if resp != nil {
		ctxlog.From(ctx).Debug("Listed commits",
			"repo", repo.FullName(),
			"count", len(commits),
			"rate_remaining", resp.Rate.Remaining,
		)
	}

	authors := make([]model.CommitAuthor, 0, len(commits))
	for _, commit := range commits {
		authors = append(authors, model.CommitAuthor{
			// Use Get*() helper methods for nil-safe field access
			Name:      commit.GetCommit().GetAuthor().GetName(),
			AvatarURL: commit.GetAuthor().GetAvatarURL(),
		})
	}

	return authors, nil
}
