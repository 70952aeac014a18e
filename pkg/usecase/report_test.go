package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	"github.com/m-mizutani/relnotes/pkg/usecase"
)

func avatarPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	gt.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleReport() *model.Report {
	return &model.Report{
		RepoURL: repoURL,
		Result: model.GenerationResult{
			Notes:   model.NotesFromList("Added X", "Fixed Y"),
			Summary: "Two changes",
		},
		Authors: []model.AuthorImage{
			{Name: "Alice", AvatarURL: "https://a/alice"},
			{Name: "Bob", AvatarURL: "https://a/bob"},
		},
	}
}

func TestReport_BuildReport(t *testing.T) {
	backend := &backendMock{fn: listResult("s", "a")}
	uc := usecase.NewReport(usecase.NewGenerator(backend, staticCommits()), &avatarsMock{})

	t.Run("empty repository URL", func(t *testing.T) {
		_, err := uc.BuildReport(context.Background(), &model.GenerationRequest{})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, usecase.ErrEmptyRepoURL))
		gt.Number(t, backend.calls()).Equal(0)
	})

	t.Run("with filters", func(t *testing.T) {
		filters := model.FilterSet{Author: "alice"}
		state, err := uc.BuildReport(context.Background(), &model.GenerationRequest{RepoURL: repoURL, Filters: &filters})
		gt.NoError(t, err)
		gt.Value(t, state.Notes).Equal(model.NotesFromList("a"))
		gt.Value(t, state.RepoURL).Equal(repoURL)

		gt.Number(t, backend.calls()).Equal(1)
		gt.Value(t, backend.requests[0].Filters.Author).Equal("alice")
	})
}

func TestReport_ExportPDF(t *testing.T) {
	avatars := &avatarsMock{images: map[string]*model.AvatarImage{
		"https://a/alice": {URL: "https://a/alice", Type: "png", Data: avatarPNG(t)},
	}}
	uc := usecase.NewReport(usecase.NewGenerator(&backendMock{}, staticCommits()), avatars)

	var buf bytes.Buffer
	gt.NoError(t, uc.ExportPDF(context.Background(), sampleReport(), &buf))
	gt.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestReport_Publish(t *testing.T) {
	t.Run("stores and notifies", func(t *testing.T) {
		local := &storeMock{}
		remote := &storeMock{}
		var notified *model.Artifact
		notifier := &notifierMock{fn: func(_ context.Context, _ *model.Report, a *model.Artifact) error {
			notified = a
			return nil
		}}

		uc := usecase.NewReport(usecase.NewGenerator(&backendMock{}, staticCommits()), &avatarsMock{},
			usecase.WithStore(local),
			usecase.WithStore(remote),
			usecase.WithNotifier(notifier),
		)

		artifacts, err := uc.Publish(context.Background(), sampleReport())
		gt.NoError(t, err)
		gt.Number(t, len(artifacts)).Equal(2)
		gt.True(t, bytes.HasPrefix(local.saved[types.ReportFileName], []byte("%PDF-")))
		gt.Value(t, remote.saved[types.ReportFileName]).Equal(local.saved[types.ReportFileName])

		gt.Value(t, notified).NotNil()
		gt.Value(t, notified.Location).Equal("mem://" + types.ReportFileName)
	})

	t.Run("notifier failure is not an error", func(t *testing.T) {
		notifier := &notifierMock{fn: func(context.Context, *model.Report, *model.Artifact) error {
			return errors.New("slack down")
		}}
		uc := usecase.NewReport(usecase.NewGenerator(&backendMock{}, staticCommits()), &avatarsMock{},
			usecase.WithStore(&storeMock{}),
			usecase.WithNotifier(notifier),
		)

		artifacts, err := uc.Publish(context.Background(), sampleReport())
		gt.NoError(t, err)
		gt.Number(t, len(artifacts)).Equal(1)
	})

	t.Run("store failure skips notification", func(t *testing.T) {
		notified := false
		notifier := &notifierMock{fn: func(context.Context, *model.Report, *model.Artifact) error {
			notified = true
			return nil
		}}
		uc := usecase.NewReport(usecase.NewGenerator(&backendMock{}, staticCommits()), &avatarsMock{},
			usecase.WithStore(&storeMock{}),
			usecase.WithStore(&storeMock{err: errors.New("bucket not found")}),
			usecase.WithNotifier(notifier),
		)

		artifacts, err := uc.Publish(context.Background(), sampleReport())
		gt.Error(t, err)
		gt.Number(t, len(artifacts)).Equal(1)
		gt.False(t, notified)
	})
}

func TestBuildDocument(t *testing.T) {
	t.Run("list notes", func(t *testing.T) {
		doc := usecase.BuildDocument(sampleReport(), true)
		gt.Value(t, doc.Title).Equal("Release Notes for owner/repo")
		gt.Value(t, doc.Summary).Equal("Two changes")
		gt.Value(t, doc.Notes).Equal([]string{"Added X", "Fixed Y"})
		gt.Value(t, doc.Avatars).Equal([]string{"https://a/alice", "https://a/bob"})
		gt.True(t, doc.TableOfContents)
	})

	t.Run("table of contents disabled", func(t *testing.T) {
		doc := usecase.BuildDocument(sampleReport(), false)
		gt.False(t, doc.TableOfContents)
	})

	t.Run("text notes have no table of contents", func(t *testing.T) {
		report := sampleReport()
		report.Result.Notes = model.NotesFromText("All in one block")
		doc := usecase.BuildDocument(report, true)
		gt.Value(t, doc.Notes).Equal([]string{"All in one block"})
		gt.False(t, doc.TableOfContents)
	})

	t.Run("unparseable repository URL", func(t *testing.T) {
		report := sampleReport()
		report.RepoURL = "not a url"
		doc := usecase.BuildDocument(report, true)
		gt.Value(t, doc.Title).Equal("Release Notes")
	})
}
