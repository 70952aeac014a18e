package http_test

import (
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

type webhookUCMock struct {
	mu     sync.Mutex
	events []*model.WebhookEvent
}

func (m *webhookUCMock) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *webhookUCMock) last() *model.WebhookEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
}

type reportUCMock struct {
	buildFn  func(ctx context.Context, req *model.GenerationRequest) (*model.State, error)
	exportFn func(ctx context.Context, report *model.Report, w io.Writer) error
}

func (m *reportUCMock) BuildReport(ctx context.Context, req *model.GenerationRequest) (*model.State, error) {
	return m.buildFn(ctx, req)
}

func (m *reportUCMock) ExportPDF(ctx context.Context, report *model.Report, w io.Writer) error {
	return m.exportFn(ctx, report, w)
}

func (m *reportUCMock) Publish(ctx context.Context, report *model.Report) ([]*model.Artifact, error) {
	return nil, nil
}
