package model

import "time"

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypeRelease WebhookEventType = "release"
	EventTypePing    WebhookEventType = "ping"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string           // Event action (e.g., released)
	Repository string           // Repository full name
	RepoURL    string           // Repository html_url
	TagName    string           // Release tag, release events only
	Sender     string           // Sender username
	ReceivedAt time.Time        // Time when the event was received
}

// TriggersGeneration reports whether the event should produce release notes
func (e *WebhookEvent) TriggersGeneration() bool {
	return e.Type == EventTypeRelease && e.Action == "released" && e.RepoURL != ""
}
