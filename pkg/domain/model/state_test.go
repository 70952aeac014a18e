package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

func TestStateUpdates(t *testing.T) {
	base := model.State{RepoURL: "https://github.com/o/r"}

	t.Run("date range ends are updated independently", func(t *testing.T) {
		s := model.SetDateStart("2024-01-01")(base)
		s = model.SetDateEnd("2024-02-01")(s)
		gt.Value(t, s.Filters.DateRange).Equal(model.DateRange{Start: "2024-01-01", End: "2024-02-01"})

		s = model.SetDateStart("")(s)
		gt.Value(t, s.Filters.DateRange).Equal(model.DateRange{End: "2024-02-01"})
	})

	t.Run("updates do not touch the original value", func(t *testing.T) {
		s := model.SetFilterType(model.CommitTypeFeat)(base)
		s = model.SetFilterAuthor("alice")(s)

		gt.Value(t, s.Filters.Type).Equal(model.CommitTypeFeat)
		gt.Value(t, s.Filters.Author).Equal("alice")
		gt.True(t, base.Filters.IsZero())
	})

	t.Run("clear filters", func(t *testing.T) {
		s := model.SetFilters(model.FilterSet{Type: model.CommitTypeChore, Author: "bob"})(base)
		gt.False(t, s.Filters.IsZero())
		s = model.ClearFilters()(s)
		gt.True(t, s.Filters.IsZero())
	})

	t.Run("clone does not share slices", func(t *testing.T) {
		s := base
		s.Notes = model.NotesFromList("a")
		s.Authors = []model.AuthorImage{{Name: "alice", AvatarURL: "u1"}}

		c := s.Clone()
		c.Notes.List[0] = "changed"
		c.Authors[0].Name = "changed"

		gt.Value(t, s.Notes.List[0]).Equal("a")
		gt.Value(t, s.Authors[0].Name).Equal("alice")
	})
}
