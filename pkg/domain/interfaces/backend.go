package interfaces

import (
	"context"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// BackendClient calls the remote release notes generator
type BackendClient interface {
	// Generate sends one generation request. It does not retry.
	Generate(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error)
}
