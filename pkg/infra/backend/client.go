package backend

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
)

//go:embed openapi.yaml
var openapiSpec []byte

// DefaultBaseURL is the public deployment of the generation backend
const DefaultBaseURL = "https://release-notes-backend.onrender.com"

// API versions of the generation endpoint
const (
	APIVersionV1 = "v1"
	APIVersionV3 = "v3"
)

const maxResponseSize = 10 << 20

const responseSchemaName = "GenerationResponse"

var (
	// ErrUnexpectedStatus is returned for non-2xx responses
	ErrUnexpectedStatus = goerr.New("unexpected status code from backend")
	// ErrInvalidResponse is returned when the body does not match the API schema
	ErrInvalidResponse = goerr.New("invalid response from backend")
)

// Client calls the release notes generation backend
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	schema     *openapi3.Schema
}

// Option is a functional option for Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithAPIVersion selects the generation endpoint (v1 or v3)
func WithAPIVersion(version string) Option {
	return func(client *Client) {
		client.apiVersion = version
	}
}

// New creates a backend client. The embedded API document is loaded once
// here and used to validate every response.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiVersion: APIVersionV1,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiVersion != APIVersionV1 && c.apiVersion != APIVersionV3 {
		return nil, goerr.New("unsupported backend API version", goerr.V("version", c.apiVersion))
	}

	doc, err := openapi3.NewLoader().LoadFromData(openapiSpec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load backend API document")
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, goerr.Wrap(err, "backend API document is invalid")
	}

	ref, ok := doc.Components.Schemas[responseSchemaName]
	if !ok || ref.Value == nil {
		return nil, goerr.New("response schema not found in backend API document", goerr.V("schema", responseSchemaName))
	}
	c.schema = ref.Value

	return c, nil
}

// Endpoint returns the full URL of the generation endpoint
func (c *Client) Endpoint() string {
	path := "/api/generate-release-notes"
	if c.apiVersion == APIVersionV3 {
		path += "-v3"
	}
	return c.baseURL + path
}

// Generate sends one generation request
func (c *Client) Generate(ctx context.Context, req *model.GenerationRequest) (*model.GenerationResult, error) {
	logger := ctxlog.From(ctx)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal generation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create generation request", goerr.V("endpoint", c.Endpoint()))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", types.ServiceName+"/"+types.Version)

	logger.Debug("Sending generation request",
		"endpoint", c.Endpoint(),
		"repo_url", req.RepoURL,
		"filtered", req.Filters != nil,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call backend", goerr.V("endpoint", c.Endpoint()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.Wrap(ErrUnexpectedStatus, "backend returned an error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(string(raw), 512)),
		)
	}

	if err := c.validate(raw); err != nil {
		return nil, err
	}

	var result model.GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, goerr.Wrap(ErrInvalidResponse, "failed to decode backend response", goerr.V("error", err.Error()))
	}

	logger.Debug("Received generated notes",
		"kind", result.Notes.Kind,
		"items", len(result.Notes.Items()),
		"has_summary", result.Summary != "",
	)

	return &result, nil
}

func (c *Client) validate(raw []byte) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return goerr.Wrap(ErrInvalidResponse, "response is not JSON", goerr.V("error", err.Error()))
	}
	if err := c.schema.VisitJSON(value); err != nil {
		return goerr.Wrap(ErrInvalidResponse, "response does not match schema", goerr.V("error", err.Error()))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
