package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/utils/async"
)

type webhookUseCase struct {
	report  interfaces.ReportUseCase
	filters *model.FilterSet
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithWebhookFilters applies filters to every generation triggered by a webhook
func WithWebhookFilters(filters model.FilterSet) WebhookOption {
	return func(uc *webhookUseCase) {
		if !filters.IsZero() {
			uc.filters = &filters
		}
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(report interfaces.ReportUseCase, opts ...WebhookOption) *webhookUseCase {
	uc := &webhookUseCase{report: report}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent processes a webhook event. A published release starts
// release notes generation in the background; other events are only logged.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"triggers", event.TriggersGeneration(),
	)

	if !event.TriggersGeneration() {
		return nil
	}

	req := &model.GenerationRequest{
		RepoURL: event.RepoURL,
		Filters: uc.filters,
	}
	logger = logger.With("delivery_id", event.ID, "tag", event.TagName)

	async.Dispatch(ctxlog.With(ctx, logger), func(ctx context.Context) error {
		return uc.publishRelease(ctx, req)
	})

	return nil
}

func (uc *webhookUseCase) publishRelease(ctx context.Context, req *model.GenerationRequest) error {
	state, err := uc.report.BuildReport(ctx, req)
	if err != nil {
		return err
	}
	if state.Failed {
		return goerr.New("release notes generation failed, nothing published", goerr.V("repo_url", req.RepoURL))
	}

	artifacts, err := uc.report.Publish(ctx, ptr(state.Report()))
	if err != nil {
		return err
	}

	for _, a := range artifacts {
		ctxlog.From(ctx).Info("Published release notes", "name", a.Name, "location", a.Location, "size", a.Size)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
