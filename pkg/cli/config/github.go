package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	githubinfra "github.com/m-mizutani/relnotes/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	APIURL         string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key, PEM content or a file path",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL (GitHub Enterprise)",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_API_URL"),
		},
	}
}

// privateKey returns the PEM bytes, reading a file when PrivateKey is a path
func (c *GitHub) privateKey() ([]byte, error) {
	if c.PrivateKey == "" {
		return nil, nil
	}
	if _, err := os.Stat(c.PrivateKey); err == nil {
		data, err := os.ReadFile(c.PrivateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKey))
		}
		return data, nil
	}
	return []byte(c.PrivateKey), nil
}

// NewClient creates a GitHub API client. App credentials take precedence
// over a token; with neither the API is called anonymously.
func (c *GitHub) NewClient() (*githubinfra.Client, error) {
	var opts []githubinfra.Option

	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.APIURL))
	}

	switch {
	case c.AppID != 0:
		key, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		opts = append(opts, githubinfra.WithApp(c.AppID, c.InstallationID, key))
	case c.Token != "":
		opts = append(opts, githubinfra.WithToken(c.Token))
	}

	return githubinfra.NewClient(opts...)
}

// Webhook holds GitHub webhook configuration
type Webhook struct {
	Secret string `masq:"secret"`
}

// Flags returns CLI flags for webhook configuration
func (c *Webhook) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret, the webhook endpoint is off when empty",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("RELNOTES_GITHUB_WEBHOOK_SECRET"),
		},
	}
}
