package config

import (
	"context"

	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/infra/slack"
	"github.com/m-mizutani/relnotes/pkg/infra/storage"
	"github.com/urfave/cli/v3"
)

// Output holds document destinations and notification configuration
type Output struct {
	// DefaultPath is the --output default. Empty means no local file.
	DefaultPath string

	Path            string
	TOC             bool
	GCSBucket       string
	GCSPrefix       string
	SlackWebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Local path (file or directory) of the PDF document",
			Value:       c.DefaultPath,
			Destination: &c.Path,
			Sources:     cli.EnvVars("RELNOTES_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:        "toc",
			Usage:       "Include a table of contents in the PDF document",
			Value:       true,
			Destination: &c.TOC,
			Sources:     cli.EnvVars("RELNOTES_TOC"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket to upload the PDF document to",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("RELNOTES_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Destination: &c.GCSPrefix,
			Sources:     cli.EnvVars("RELNOTES_GCS_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL to announce published documents",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("RELNOTES_SLACK_WEBHOOK_URL"),
		},
	}
}

// Stores creates the configured artifact stores. The returned function
// releases them and must be called when done.
func (c *Output) Stores(ctx context.Context) ([]interfaces.ArtifactStore, func(), error) {
	var stores []interfaces.ArtifactStore
	closer := func() {}

	if c.Path != "" {
		stores = append(stores, storage.NewLocal(c.Path))
	}

	if c.GCSBucket != "" {
		gcs, err := storage.NewGCS(ctx, c.GCSBucket, c.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		stores = append(stores, gcs)
		closer = func() { _ = gcs.Close() }
	}

	return stores, closer, nil
}

// Notifiers creates the configured notifiers
func (c *Output) Notifiers() []interfaces.Notifier {
	var notifiers []interfaces.Notifier
	if c.SlackWebhookURL != "" {
		notifiers = append(notifiers, slack.New(c.SlackWebhookURL))
	}
	return notifiers
}
