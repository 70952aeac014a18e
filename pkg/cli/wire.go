package cli

import (
	"context"

	"github.com/m-mizutani/relnotes/pkg/cli/config"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/infra/avatar"
	"github.com/m-mizutani/relnotes/pkg/usecase"
)

// newGenerator builds the generator from backend and GitHub settings
func newGenerator(backendCfg *config.Backend, githubCfg *config.GitHub) (*usecase.Generator, error) {
	backendClient, err := backendCfg.New()
	if err != nil {
		return nil, err
	}

	githubClient, err := githubCfg.NewClient()
	if err != nil {
		return nil, err
	}

	return usecase.NewGenerator(backendClient, githubClient), nil
}

// newReportUseCase builds the report use case with the configured
// destinations. The returned function releases them.
func newReportUseCase(ctx context.Context, gen *usecase.Generator, outputCfg *config.Output) (interfaces.ReportUseCase, func(), error) {
	stores, closer, err := outputCfg.Stores(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := []usecase.ReportOption{
		usecase.WithTableOfContents(outputCfg.TOC),
	}
	for _, s := range stores {
		opts = append(opts, usecase.WithStore(s))
	}
	for _, n := range outputCfg.Notifiers() {
		opts = append(opts, usecase.WithNotifier(n))
	}

	return usecase.NewReport(gen, avatar.New(), opts...), closer, nil
}
