package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// ErrSuperseded is returned when a newer generation started while this one
// was in flight. Its result was discarded.
var ErrSuperseded = goerr.New("generation superseded by a newer request")

// Session is the stateful request orchestrator. State only changes through
// Update and Generate, and a response is applied only while its generation
// token is still the latest one.
type Session struct {
	gen *Generator

	mu     sync.Mutex
	state  model.State
	cancel context.CancelFunc
}

// NewSession creates a session with initial updates applied
func NewSession(gen *Generator, updates ...model.StateUpdate) *Session {
	s := &Session{gen: gen}
	s.Update(updates...)
	return s
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Update applies structural updates in order and returns the new state
func (s *Session) Update(updates ...model.StateUpdate) model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fn := range updates {
		s.state = fn(s.state)
	}
	return s.state.Clone()
}

// Generate requests release notes for the current repository URL and
// filters, then looks up commit authors.
//
// With an empty repository URL nothing is sent and the state is returned
// unchanged. A generation failure of any kind replaces the notes with
// model.FailureMessage and is not returned as an error. An author lookup
// failure only leaves the author list empty. Starting a new generation
// cancels the one in flight; the older call then returns ErrSuperseded.
func (s *Session) Generate(ctx context.Context) (model.State, error) {
	s.mu.Lock()
	if s.state.RepoURL == "" {
		defer s.mu.Unlock()
		return s.state.Clone(), nil
	}

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	s.state.Generation++
	s.state.RequestID = uuid.NewString()
	s.state.Loading = true

	token := s.state.Generation
	req := &model.GenerationRequest{RepoURL: s.state.RepoURL}
	if !s.state.Filters.IsZero() {
		filters := s.state.Filters
		req.Filters = &filters
	}
	logger := ctxlog.From(ctx).With("request_id", s.state.RequestID, "repo_url", req.RepoURL)
	s.mu.Unlock()

	logger.Info("Generating release notes", "generation", token, "filtered", req.Filters != nil)

	result, err := s.gen.Generate(ctx, req)
	if err != nil {
		logger.Error("Release notes generation failed", "error", err)
		return s.commit(token, func(st model.State) model.State {
			st.Loading = false
			st.Failed = true
			st.Notes = model.NotesFromText(model.FailureMessage)
			st.Summary = ""
			st.Authors = nil
			return st
		})
	}

	if _, err := s.commit(token, func(st model.State) model.State {
		st.Failed = false
		st.Notes = result.Notes
		st.Summary = result.Summary
		st.Authors = nil
		return st
	}); err != nil {
		return s.Snapshot(), err
	}

	authors, err := s.gen.FetchAuthors(ctx, req.RepoURL)
	if err != nil {
		logger.Warn("Failed to fetch commit authors", "error", err)
		authors = nil
	}

	logger.Info("Release notes generated",
		"items", len(result.Notes.Items()),
		"authors", len(authors),
	)

	return s.commit(token, func(st model.State) model.State {
		st.Loading = false
		st.Authors = authors
		return st
	})
}

// commit applies fn only if token is still the latest generation
func (s *Session) commit(token uint64, fn model.StateUpdate) (model.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Generation != token {
		return s.state.Clone(), goerr.Wrap(ErrSuperseded, "discarding stale response",
			goerr.V("token", token),
			goerr.V("latest", s.state.Generation),
		)
	}

	s.state = fn(s.state)
	return s.state.Clone(), nil
}
