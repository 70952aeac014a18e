package config

import (
	"net/http"
	"time"

	"github.com/m-mizutani/relnotes/pkg/infra/backend"
	"github.com/urfave/cli/v3"
)

// Backend holds release notes backend configuration
type Backend struct {
	URL        string
	APIVersion string
	Timeout    time.Duration
}

// Flags returns CLI flags for backend configuration
func (c *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Usage:       "Base URL of the release notes backend",
			Value:       backend.DefaultBaseURL,
			Destination: &c.URL,
			Sources:     cli.EnvVars("RELNOTES_BACKEND_URL"),
		},
		&cli.StringFlag{
			Name:        "api-version",
			Usage:       "Backend API version (v1, v3)",
			Value:       backend.APIVersionV1,
			Destination: &c.APIVersion,
			Sources:     cli.EnvVars("RELNOTES_API_VERSION"),
		},
		&cli.DurationFlag{
			Name:        "backend-timeout",
			Usage:       "Timeout of a single generation request, 0 waits indefinitely",
			Value:       0,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("RELNOTES_BACKEND_TIMEOUT"),
		},
	}
}

// New creates a backend client
func (c *Backend) New() (*backend.Client, error) {
	return backend.New(c.URL,
		backend.WithAPIVersion(c.APIVersion),
		backend.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	)
}
