package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FailureMessage replaces the notes when generation fails for any reason
const FailureMessage = "Failed to generate release notes. Please try again."

// NotesKind tells which shape the backend returned notes in
type NotesKind string

const (
	NotesKindList NotesKind = "list"
	NotesKindText NotesKind = "text"
)

// Notes holds release notes either as an ordered list of entries or as a
// single block of text. The backend returns both shapes depending on the
// endpoint, so neither is treated as canonical.
type Notes struct {
	Kind NotesKind
	List []string
	Text string
}

// NotesFromList creates list-shaped notes
func NotesFromList(items ...string) Notes {
	if items == nil {
		items = []string{}
	}
	return Notes{Kind: NotesKindList, List: items}
}

// NotesFromText creates text-shaped notes
func NotesFromText(text string) Notes {
	return Notes{Kind: NotesKindText, Text: text}
}

// Items returns the notes as entries. A non-empty text block is one entry.
func (n Notes) Items() []string {
	switch n.Kind {
	case NotesKindText:
		if n.Text == "" {
			return nil
		}
		return []string{n.Text}
	default:
		return n.List
	}
}

// IsEmpty reports whether there is nothing to display
func (n Notes) IsEmpty() bool {
	return len(n.Items()) == 0
}

// UnmarshalJSON accepts a string, an array of strings or null
func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = NotesFromList()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*n = NotesFromText(text)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*n = NotesFromList(list...)
		return nil
	default:
		return fmt.Errorf("notes must be a string or an array of strings, got %s", string(trimmed[:1]))
	}
}

// MarshalJSON writes notes back in the shape they were received in
func (n Notes) MarshalJSON() ([]byte, error) {
	if n.Kind == NotesKindText {
		return json.Marshal(n.Text)
	}
	if n.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n.List)
}

// GenerationRequest is the body sent to the generation backend
type GenerationRequest struct {
	RepoURL string     `json:"repoUrl"`
	Filters *FilterSet `json:"filters,omitempty"`
}

// GenerationResult is what the backend returns on success
type GenerationResult struct {
	Notes   Notes  `json:"notes"`
	Summary string `json:"summary,omitempty"`
}
