package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// RecentCommitLimit is how many of the latest commits are scanned for authors
const RecentCommitLimit = 50

// Generator runs the two outbound calls of a generation. It keeps no state.
type Generator struct {
	backend interfaces.BackendClient
	commits interfaces.CommitSource
}

// NewGenerator creates a Generator
func NewGenerator(backend interfaces.BackendClient, commits interfaces.CommitSource) *Generator {
	return &Generator{
		backend: backend,
		commits: commits,
	}
}

// Generate requests release notes for req from the backend
func (g *Generator) Generate(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	result, err := g.backend.Generate(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate release notes", goerr.V("repo_url", req.RepoURL))
	}
	return result, nil
}

// FetchAuthors lists the authors of the most recent commits of the
// repository, one entry per distinct avatar.
func (g *Generator) FetchAuthors(ctx context.Context, repoURL string) ([]model.AuthorImage, error) {
	repo, err := model.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	commits, err := g.commits.ListRecentCommits(ctx, repo, RecentCommitLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch commit authors", goerr.V("repo", repo.FullName()))
	}

	return DedupAuthors(commits), nil
}

// DedupAuthors collapses commits into one author per avatar URL. The first
// name seen for an avatar wins and first-seen order is kept. Commits
// without an avatar share the placeholder image.
func DedupAuthors(commits []model.CommitAuthor) []model.AuthorImage {
	seen := make(map[string]struct{}, len(commits))
	authors := make([]model.AuthorImage, 0, len(commits))

	for _, c := range commits {
		avatarURL := c.AvatarURL
		if avatarURL == "" {
			avatarURL = model.PlaceholderAvatarURL
		}
		if _, ok := seen[avatarURL]; ok {
			continue
		}
		seen[avatarURL] = struct{}{}
		authors = append(authors, model.AuthorImage{Name: c.Name, AvatarURL: avatarURL})
	}

	return authors
}
