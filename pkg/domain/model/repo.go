package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// GitHubURLPrefix is stripped from repository URLs to build API paths
const GitHubURLPrefix = "https://github.com/"

// ErrInvalidRepoURL is returned when owner/repo cannot be derived from a URL
var ErrInvalidRepoURL = goerr.New("invalid GitHub repository URL")

// RepoRef identifies a GitHub repository
type RepoRef struct {
	Owner string
	Repo  string
}

// FullName returns "owner/repo"
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepoURL derives owner and repository name from a GitHub URL such
// as https://github.com/owner/repo
func ParseRepoURL(repoURL string) (RepoRef, error) {
	s := strings.TrimSpace(repoURL)
	s = strings.Replace(s, "http://", "https://", 1)
	s = strings.Replace(s, "https://www.github.com/", GitHubURLPrefix, 1)

	if !strings.HasPrefix(s, GitHubURLPrefix) {
		return RepoRef{}, goerr.Wrap(ErrInvalidRepoURL, "missing github.com prefix", goerr.V("url", repoURL))
	}

	path := strings.TrimPrefix(s, GitHubURLPrefix)
	path = strings.TrimSuffix(path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, goerr.Wrap(ErrInvalidRepoURL, "owner or repository is missing", goerr.V("url", repoURL))
	}

	return RepoRef{Owner: parts[0], Repo: parts[1]}, nil
}
