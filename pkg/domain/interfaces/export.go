package interfaces

import (
	"context"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// AvatarFetcher downloads author avatar images
type AvatarFetcher interface {
	// FetchAvatars returns images keyed by URL. Images that could not be
	// fetched are absent from the map.
	FetchAvatars(ctx context.Context, urls []string) map[string]*model.AvatarImage
}

// ArtifactStore persists an exported document
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) (*model.Artifact, error)
}

// Notifier announces a published report
type Notifier interface {
	Notify(ctx context.Context, report *model.Report, artifact *model.Artifact) error
}
