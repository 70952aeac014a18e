package usecase_test

import (
	"context"
	"sync"

	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

type backendMock struct {
	mu       sync.Mutex
	requests []*model.GenerationRequest
	fn       func(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error)
}

func (m *backendMock) Generate(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.fn(ctx, req)
}

func (m *backendMock) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

type commitsMock struct {
	fn func(ctx context.Context, repo model.RepoRef, limit int) ([]model.CommitAuthor, error)
}

func (m *commitsMock) ListRecentCommits(ctx context.Context, repo model.RepoRef, limit int) ([]model.CommitAuthor, error) {
	return m.fn(ctx, repo, limit)
}

type avatarsMock struct {
	images map[string]*model.AvatarImage
}

func (m *avatarsMock) FetchAvatars(ctx context.Context, urls []string) map[string]*model.AvatarImage {
	out := make(map[string]*model.AvatarImage)
	for _, u := range urls {
		if img, ok := m.images[u]; ok {
			out[u] = img
		}
	}
	return out
}

type storeMock struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (m *storeMock) Save(ctx context.Context, name string, data []byte) (*model.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[name] = data
	return &model.Artifact{Name: name, Location: "mem://" + name, Size: len(data)}, nil
}

type notifierMock struct {
	fn func(ctx context.Context, report *model.Report, artifact *model.Artifact) error
}

func (m *notifierMock) Notify(ctx context.Context, report *model.Report, artifact *model.Artifact) error {
	return m.fn(ctx, report, artifact)
}

func listResult(summary string, items ...string) func(context.Context, *model.GenerationRequest) (*model.GenerationResult, error) {
	return func(context.Context, *model.GenerationRequest) (*model.GenerationResult, error) {
		return &model.GenerationResult{Notes: model.NotesFromList(items...), Summary: summary}, nil
	}
}

func staticCommits(commits ...model.CommitAuthor) *commitsMock {
	return &commitsMock{fn: func(context.Context, model.RepoRef, int) ([]model.CommitAuthor, error) {
		return commits, nil
	}}
}
