package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	"github.com/m-mizutani/relnotes/pkg/pdf"
)

// ErrEmptyRepoURL is returned when a report is requested without a repository
var ErrEmptyRepoURL = goerr.New("repository URL is empty")

type reportUseCase struct {
	gen       *Generator
	avatars   interfaces.AvatarFetcher
	stores    []interfaces.ArtifactStore
	notifiers []interfaces.Notifier
	toc       bool
}

// ReportOption configures the report use case
type ReportOption func(*reportUseCase)

// WithStore adds a destination for published documents
func WithStore(store interfaces.ArtifactStore) ReportOption {
	return func(uc *reportUseCase) {
		uc.stores = append(uc.stores, store)
	}
}

// WithNotifier adds a notifier called after publishing
func WithNotifier(n interfaces.Notifier) ReportOption {
	return func(uc *reportUseCase) {
		uc.notifiers = append(uc.notifiers, n)
	}
}

// WithTableOfContents toggles the table of contents section
func WithTableOfContents(enabled bool) ReportOption {
	return func(uc *reportUseCase) {
		uc.toc = enabled
	}
}

// NewReport creates a ReportUseCase
func NewReport(gen *Generator, avatars interfaces.AvatarFetcher, opts ...ReportOption) interfaces.ReportUseCase {
	uc := &reportUseCase{
		gen:     gen,
		avatars: avatars,
		toc:     true,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// BuildReport runs a one-shot session for req
func (uc *reportUseCase) BuildReport(ctx context.Context, req *model.GenerationRequest) (*model.State, error) {
	if req.RepoURL == "" {
		return nil, ErrEmptyRepoURL
	}

	updates := []model.StateUpdate{model.SetRepoURL(req.RepoURL)}
	if req.Filters != nil {
		updates = append(updates, model.SetFilters(*req.Filters))
	}

	state, err := NewSession(uc.gen, updates...).Generate(ctx)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// ExportPDF renders report into w
func (uc *reportUseCase) ExportPDF(ctx context.Context, report *model.Report, w io.Writer) error {
	urls := make([]string, 0, len(report.Authors))
	for _, a := range report.Authors {
		urls = append(urls, a.AvatarURL)
	}
	images := uc.avatars.FetchAvatars(ctx, urls)

	doc := BuildDocument(report, uc.toc)
	layout, err := pdf.Write(ctx, w, doc, images)
	if err != nil {
		return goerr.Wrap(err, "failed to export release notes", goerr.V("repo_url", report.RepoURL))
	}

	ctxlog.From(ctx).Debug("Rendered release notes document",
		"pages", len(layout.Pages),
		"notes", len(doc.Notes),
		"avatars", len(images),
	)
	return nil
}

// Publish renders report and saves it to every store. Notifiers are told
// about the first stored artifact; their failures are only logged.
func (uc *reportUseCase) Publish(ctx context.Context, report *model.Report) ([]*model.Artifact, error) {
	logger := ctxlog.From(ctx)

	var buf bytes.Buffer
	if err := uc.ExportPDF(ctx, report, &buf); err != nil {
		return nil, err
	}

	var (
		artifacts []*model.Artifact
		errs      []error
	)
	for _, store := range uc.stores {
		artifact, err := store.Save(ctx, types.ReportFileName, buf.Bytes())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		artifacts = append(artifacts, artifact)
	}
	if len(errs) > 0 {
		return artifacts, goerr.Wrap(errors.Join(errs...), "failed to store release notes document",
			goerr.V("stored", len(artifacts)),
			goerr.V("failed", len(errs)),
		)
	}

	var primary *model.Artifact
	if len(artifacts) > 0 {
		primary = artifacts[0]
	}
	for _, n := range uc.notifiers {
		if err := n.Notify(ctx, report, primary); err != nil {
			logger.Warn("Failed to send notification", "error", err, "repo_url", report.RepoURL)
		}
	}

	return artifacts, nil
}

// BuildDocument converts a report into paginator input. Author i is paired
// with note i.
func BuildDocument(report *model.Report, toc bool) *pdf.Document {
	title := "Release Notes"
	if repo, err := model.ParseRepoURL(report.RepoURL); err == nil {
		title += " for " + repo.FullName()
	}

	avatars := make([]string, 0, len(report.Authors))
	for _, a := range report.Authors {
		avatars = append(avatars, a.AvatarURL)
	}

	return &pdf.Document{
		Title:   title,
		Summary: report.Result.Summary,
		Notes:   report.Result.Notes.Items(),
		Avatars: avatars,
		// a single text block has nothing to index
		TableOfContents: toc && report.Result.Notes.Kind == model.NotesKindList,
	}
}
