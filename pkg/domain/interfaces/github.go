package interfaces

import (
	"context"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// CommitSource defines read access to repository commits on GitHub
type CommitSource interface {
	// ListRecentCommits returns author data of up to limit most recent commits
	ListRecentCommits(ctx context.Context, repo model.RepoRef, limit int) ([]model.CommitAuthor, error)
}
