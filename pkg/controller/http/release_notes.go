package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
)

const maxRequestBodySize = 1 << 20

// ReleaseNotesResponse is the JSON body of a generation response
type ReleaseNotesResponse struct {
	RepoURL string              `json:"repoUrl"`
	Notes   model.Notes         `json:"notes"`
	Summary string              `json:"summary"`
	Authors []model.AuthorImage `json:"authors"`
	Failed  bool                `json:"failed"`
}

// ReleaseNotesHandler serves on-demand release notes generation
type ReleaseNotesHandler struct {
	reportUC interfaces.ReportUseCase
}

// NewReleaseNotesHandler creates a new ReleaseNotesHandler
func NewReleaseNotesHandler(reportUC interfaces.ReportUseCase) *ReleaseNotesHandler {
	return &ReleaseNotesHandler{reportUC: reportUC}
}

// HandleJSON generates release notes and returns them as JSON. A failed
// generation is still a 200 response with failed set.
func (h *ReleaseNotesHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	state, ok := h.build(w, r)
	if !ok {
		return
	}

	authors := state.Authors
	if authors == nil {
		authors = []model.AuthorImage{}
	}

	writeJSON(w, r, &ReleaseNotesResponse{
		RepoURL: state.RepoURL,
		Notes:   state.Notes,
		Summary: state.Summary,
		Authors: authors,
		Failed:  state.Failed,
	}, http.StatusOK)
}

// HandlePDF generates release notes and returns them as a PDF attachment
func (h *ReleaseNotesHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	state, ok := h.build(w, r)
	if !ok {
		return
	}
	if state.Failed {
		writeError(w, goerr.New(model.FailureMessage), http.StatusBadGateway)
		return
	}

	report := state.Report()
	var buf bytes.Buffer
	if err := h.reportUC.ExportPDF(ctx, &report, &buf); err != nil {
		logger.Error("Failed to export release notes", "error", err)
		writeError(w, goerr.New("failed to export release notes"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+types.ReportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error("Failed to write PDF response", "error", err)
	}
}

// build decodes the request and runs generation. It writes the error
// response itself and returns false when the caller should stop.
func (h *ReleaseNotesHandler) build(w http.ResponseWriter, r *http.Request) (*model.State, bool) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req model.GenerationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		logger.Warn("Failed to decode request body", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON request body"), http.StatusBadRequest)
		return nil, false
	}
	if req.RepoURL == "" {
		writeError(w, goerr.New("repoUrl is required"), http.StatusBadRequest)
		return nil, false
	}

	state, err := h.reportUC.BuildReport(ctx, &req)
	if err != nil {
		logger.Error("Failed to build release notes", "error", err, "repo_url", req.RepoURL)
		writeError(w, goerr.New("failed to build release notes"), http.StatusInternalServerError)
		return nil, false
	}

	return state, true
}
