package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . WebhookUseCase ReportUseCase

import (
	"context"
	"io"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// ReportUseCase produces and exports release notes reports
type ReportUseCase interface {
	// BuildReport runs generation and author lookup for a single request.
	// A failed generation is reported through the returned state, not
	// through the error.
	BuildReport(ctx context.Context, req *model.GenerationRequest) (*model.State, error)

	// ExportPDF renders a report as PDF into w
	ExportPDF(ctx context.Context, report *model.Report, w io.Writer) error

	// Publish renders a report and hands it to the configured stores and notifiers
	Publish(ctx context.Context, report *model.Report) ([]*model.Artifact, error)
}
