package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

func TestNotes_UnmarshalJSON(t *testing.T) {
	t.Run("array of strings", func(t *testing.T) {
		var result model.GenerationResult
		gt.NoError(t, json.Unmarshal([]byte(`{"notes":["feat: a","fix: b"],"summary":"two changes"}`), &result))

		gt.Value(t, result.Notes.Kind).Equal(model.NotesKindList)
		gt.Value(t, result.Notes.Items()).Equal([]string{"feat: a", "fix: b"})
		gt.Value(t, result.Summary).Equal("two changes")
	})

	t.Run("single block of text", func(t *testing.T) {
		var result model.GenerationResult
		gt.NoError(t, json.Unmarshal([]byte(`{"notes":"## v1.0\n- initial"}`), &result))

		gt.Value(t, result.Notes.Kind).Equal(model.NotesKindText)
		gt.Value(t, result.Notes.Text).Equal("## v1.0\n- initial")
		gt.Value(t, result.Notes.Items()).Equal([]string{"## v1.0\n- initial"})
		gt.Value(t, result.Summary).Equal("")
	})

	t.Run("null becomes an empty list", func(t *testing.T) {
		var result model.GenerationResult
		gt.NoError(t, json.Unmarshal([]byte(`{"notes":null}`), &result))

		gt.Value(t, result.Notes.Kind).Equal(model.NotesKindList)
		gt.True(t, result.Notes.IsEmpty())
	})

	t.Run("number is rejected", func(t *testing.T) {
		var result model.GenerationResult
		gt.Error(t, json.Unmarshal([]byte(`{"notes":42}`), &result))
	})

	t.Run("mixed array is rejected", func(t *testing.T) {
		var result model.GenerationResult
		gt.Error(t, json.Unmarshal([]byte(`{"notes":["a",1]}`), &result))
	})
}

func TestNotes_MarshalJSON(t *testing.T) {
	t.Run("keeps text shape", func(t *testing.T) {
		data, err := json.Marshal(model.NotesFromText("hello"))
		gt.NoError(t, err)
		gt.Value(t, string(data)).Equal(`"hello"`)
	})

	t.Run("keeps list shape", func(t *testing.T) {
		data, err := json.Marshal(model.NotesFromList("a", "b"))
		gt.NoError(t, err)
		gt.Value(t, string(data)).Equal(`["a","b"]`)
	})

	t.Run("zero value is an empty list", func(t *testing.T) {
		data, err := json.Marshal(model.Notes{})
		gt.NoError(t, err)
		gt.Value(t, string(data)).Equal(`[]`)
	})
}

func TestGenerationRequest_OmitsEmptyFilters(t *testing.T) {
	data, err := json.Marshal(model.GenerationRequest{RepoURL: "https://github.com/o/r"})
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal(`{"repoUrl":"https://github.com/o/r"}`)

	data, err = json.Marshal(model.GenerationRequest{
		RepoURL: "https://github.com/o/r",
		Filters: &model.FilterSet{Type: model.CommitTypeFix, DateRange: model.DateRange{Start: "2024-01-01"}},
	})
	gt.NoError(t, err)
	gt.Value(t, string(data)).Equal(`{"repoUrl":"https://github.com/o/r","filters":{"type":"fix","author":"","dateRange":{"start":"2024-01-01","end":""}}}`)
}
