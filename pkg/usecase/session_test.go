package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/usecase"
)

const repoURL = "https://github.com/owner/repo"

func TestSession_EmptyRepoURLSendsNothing(t *testing.T) {
	backend := &backendMock{fn: listResult("unused", "x")}
	session := usecase.NewSession(usecase.NewGenerator(backend, staticCommits()))
	before := session.Snapshot()

	state, err := session.Generate(context.Background())
	gt.NoError(t, err)
	gt.Number(t, backend.calls()).Equal(0)
	gt.Value(t, state).Equal(before)
	gt.Value(t, session.Snapshot()).Equal(before)
}

func TestSession_Success(t *testing.T) {
	backend := &backendMock{fn: listResult("Two changes", "Added X", "Fixed Y")}
	commits := staticCommits(
		model.CommitAuthor{Name: "Alice", AvatarURL: "https://a/alice"},
		model.CommitAuthor{Name: "Ghost"},
	)
	session := usecase.NewSession(usecase.NewGenerator(backend, commits), model.SetRepoURL(repoURL))

	state, err := session.Generate(context.Background())
	gt.NoError(t, err)

	gt.False(t, state.Loading)
	gt.False(t, state.Failed)
	gt.Value(t, state.Notes).Equal(model.NotesFromList("Added X", "Fixed Y"))
	gt.Value(t, state.Summary).Equal("Two changes")
	gt.Value(t, state.Authors).Equal([]model.AuthorImage{
		{Name: "Alice", AvatarURL: "https://a/alice"},
		{Name: "Ghost", AvatarURL: model.PlaceholderAvatarURL},
	})
	gt.Number(t, state.Generation).Equal(uint64(1))
	gt.Value(t, state.RequestID).NotEqual("")

	gt.Number(t, backend.calls()).Equal(1)
	gt.Value(t, backend.requests[0].RepoURL).Equal(repoURL)
	gt.Value(t, backend.requests[0].Filters).Nil()
}

func TestSession_TextNotesKeptVerbatim(t *testing.T) {
	text := "Line one\n\nLine two"
	backend := &backendMock{fn: func(context.Context, *model.GenerationRequest) (*model.GenerationResult, error) {
		return &model.GenerationResult{Notes: model.NotesFromText(text)}, nil
	}}
	session := usecase.NewSession(usecase.NewGenerator(backend, staticCommits()), model.SetRepoURL(repoURL))

	state, err := session.Generate(context.Background())
	gt.NoError(t, err)
	gt.Value(t, state.Notes.Kind).Equal(model.NotesKindText)
	gt.Value(t, state.Notes.Text).Equal(text)
}

func TestSession_FiltersSent(t *testing.T) {
	backend := &backendMock{fn: listResult("", "a")}
	session := usecase.NewSession(usecase.NewGenerator(backend, staticCommits()),
		model.SetRepoURL(repoURL),
		model.SetFilterType(model.CommitTypeFix),
		model.SetDateStart("2024-01-01"),
	)

	_, err := session.Generate(context.Background())
	gt.NoError(t, err)

	gt.Number(t, backend.calls()).Equal(1)
	filters := backend.requests[0].Filters
	gt.Value(t, filters).NotNil()
	gt.Value(t, filters.Type).Equal(model.CommitTypeFix)
	gt.Value(t, filters.DateRange).Equal(model.DateRange{Start: "2024-01-01"})
}

func TestSession_BackendFailure(t *testing.T) {
	backend := &backendMock{fn: func(context.Context, *model.GenerationRequest) (*model.GenerationResult, error) {
		return nil, errors.New("502 bad gateway")
	}}
	commitsCalled := false
	commits := &commitsMock{fn: func(context.Context, model.RepoRef, int) ([]model.CommitAuthor, error) {
		commitsCalled = true
		return nil, nil
	}}
	session := usecase.NewSession(usecase.NewGenerator(backend, commits), model.SetRepoURL(repoURL))

	state, err := session.Generate(context.Background())
	gt.NoError(t, err)
	gt.True(t, state.Failed)
	gt.False(t, state.Loading)
	gt.Value(t, state.Notes.Items()).Equal([]string{model.FailureMessage})
	gt.Value(t, state.Summary).Equal("")
	gt.False(t, commitsCalled)
}

func TestSession_FailureReplacesPreviousResult(t *testing.T) {
	fail := false
	backend := &backendMock{fn: func(context.Context, *model.GenerationRequest) (*model.GenerationResult, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &model.GenerationResult{Notes: model.NotesFromList("ok"), Summary: "fine"}, nil
	}}
	commits := staticCommits(model.CommitAuthor{Name: "Alice", AvatarURL: "https://a/alice"})
	session := usecase.NewSession(usecase.NewGenerator(backend, commits), model.SetRepoURL(repoURL))

	state, err := session.Generate(context.Background())
	gt.NoError(t, err)
	gt.Number(t, len(state.Authors)).Equal(1)

	fail = true
	state, err = session.Generate(context.Background())
	gt.NoError(t, err)
	gt.True(t, state.Failed)
	gt.Value(t, state.Notes.Items()).Equal([]string{model.FailureMessage})
	gt.Value(t, state.Summary).Equal("")
	gt.Value(t, state.Authors).Nil()
}

func TestSession_AuthorFailureIsSwallowed(t *testing.T) {
	backend := &backendMock{fn: listResult("s", "a", "b")}
	commits := &commitsMock{fn: func(context.Context, model.RepoRef, int) ([]model.CommitAuthor, error) {
		return nil, errors.New("github down")
	}}
	session := usecase.NewSession(usecase.NewGenerator(backend, commits), model.SetRepoURL(repoURL))

	state, err := session.Generate(context.Background())
	gt.NoError(t, err)
	gt.False(t, state.Failed)
	gt.Value(t, state.Notes).Equal(model.NotesFromList("a", "b"))
	gt.Number(t, len(state.Authors)).Equal(0)
}

func TestSession_UpdateKeepsResult(t *testing.T) {
	backend := &backendMock{fn: listResult("s", "a")}
	session := usecase.NewSession(usecase.NewGenerator(backend, staticCommits()), model.SetRepoURL(repoURL))

	_, err := session.Generate(context.Background())
	gt.NoError(t, err)

	state := session.Update(model.SetFilterAuthor("alice"), model.SetRepoURL("https://github.com/other/repo"))
	gt.Value(t, state.Notes).Equal(model.NotesFromList("a"))
	gt.Value(t, state.Filters.Author).Equal("alice")
	gt.Value(t, state.RepoURL).Equal("https://github.com/other/repo")
	gt.Number(t, backend.calls()).Equal(1)
}

func TestSession_SupersededResponseIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	calls := 0

	backend := &backendMock{fn: func(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if n == 1 {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &model.GenerationResult{Notes: model.NotesFromList("second")}, nil
	}}
	session := usecase.NewSession(usecase.NewGenerator(backend, staticCommits()), model.SetRepoURL(repoURL))

	type outcome struct {
		state model.State
		err   error
	}
	first := make(chan outcome, 1)
	go func() {
		st, err := session.Generate(context.Background())
		first <- outcome{st, err}
	}()
	<-started

	second, err := session.Generate(context.Background())
	gt.NoError(t, err)
	gt.Value(t, second.Notes).Equal(model.NotesFromList("second"))

	got := <-first
	gt.True(t, errors.Is(got.err, usecase.ErrSuperseded))

	final := session.Snapshot()
	gt.False(t, final.Failed)
	gt.Value(t, final.Notes).Equal(model.NotesFromList("second"))
	gt.Number(t, final.Generation).Equal(uint64(2))
}
