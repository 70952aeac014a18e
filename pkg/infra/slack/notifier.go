package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxSummaryLength keeps messages readable in a channel
const maxSummaryLength = 1500

// Notifier posts report announcements to a Slack incoming webhook
type Notifier struct {
	webhookURL string
}

// New creates a Notifier for the given incoming webhook URL
func New(webhookURL string) *Notifier {
	return &Notifier{webhookURL: webhookURL}
}

// Notify posts the repository, summary and artifact location
func (n *Notifier) Notify(ctx context.Context, report *model.Report, artifact *model.Artifact) error {
	msg := &slack.WebhookMessage{
		Text: buildText(report, artifact),
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("repo_url", report.RepoURL))
	}
	return nil
}

func buildText(report *model.Report, artifact *model.Artifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Release notes generated* for <%s>\n", report.RepoURL)

	if summary := report.Result.Summary; summary != "" {
		if len(summary) > maxSummaryLength {
			summary = summary[:maxSummaryLength] + "..."
		}
		fmt.Fprintf(&b, "%s\n", summary)
	}

	fmt.Fprintf(&b, "%d entries, %d authors", len(report.Result.Notes.Items()), len(report.Authors))
	if artifact != nil {
		fmt.Fprintf(&b, "\nDocument: `%s`", artifact.Location)
	}
	return b.String()
}
