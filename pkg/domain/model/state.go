package model

import "slices"

// State is the whole session state of the orchestrator. It is never
// mutated in place; updates produce a new value.
type State struct {
	RepoURL string
	Filters FilterSet

	Loading bool
	Failed  bool

	Notes   Notes
	Summary string
	Authors []AuthorImage

	// Generation is the token of the latest request. A response carrying
	// an older token is stale.
	Generation uint64
	RequestID  string
}

// StateUpdate is a structural update of State
type StateUpdate func(State) State

// Clone returns a copy that does not share slices with s
func (s State) Clone() State {
	out := s
	out.Notes.List = slices.Clone(s.Notes.List)
	out.Authors = slices.Clone(s.Authors)
	return out
}

// Report converts the current state into an exportable report
func (s State) Report() Report {
	return Report{
		RepoURL: s.RepoURL,
		Result: GenerationResult{
			Notes:   s.Notes,
			Summary: s.Summary,
		},
		Authors: slices.Clone(s.Authors),
	}
}

func SetRepoURL(url string) StateUpdate {
	return func(s State) State {
		s.RepoURL = url
		return s
	}
}

func SetFilters(f FilterSet) StateUpdate {
	return func(s State) State {
		s.Filters = f
		return s
	}
}

func SetFilterType(t CommitType) StateUpdate {
	return func(s State) State {
		s.Filters.Type = t
		return s
	}
}

func SetFilterAuthor(author string) StateUpdate {
	return func(s State) State {
		s.Filters.Author = author
		return s
	}
}

// SetDateStart replaces only the start of the date range
func SetDateStart(start string) StateUpdate {
	return func(s State) State {
		s.Filters.DateRange = DateRange{Start: start, End: s.Filters.DateRange.End}
		return s
	}
}

// SetDateEnd replaces only the end of the date range
func SetDateEnd(end string) StateUpdate {
	return func(s State) State {
		s.Filters.DateRange = DateRange{Start: s.Filters.DateRange.Start, End: end}
		return s
	}
}

func ClearFilters() StateUpdate {
	return func(s State) State {
		s.Filters = FilterSet{}
		return s
	}
}
