package model

// CommitType selects a conventional-commit category on the backend side
type CommitType string

const (
	CommitTypeAny   CommitType = ""
	CommitTypeFeat  CommitType = "feat"
	CommitTypeFix   CommitType = "fix"
	CommitTypeChore CommitType = "chore"
)

// DateRange bounds commits by date. Both ends are YYYY-MM-DD or empty.
type DateRange struct {
	Start string `json:"start" toml:"start"`
	End   string `json:"end" toml:"end"`
}

// FilterSet is passed through to the backend as is. It is not validated
// on this side.
type FilterSet struct {
	Type      CommitType `json:"type" toml:"type"`
	Author    string     `json:"author" toml:"author"`
	DateRange DateRange  `json:"dateRange" toml:"date_range"`
}

// IsZero reports whether no filter is set
func (f FilterSet) IsZero() bool {
	return f.Type == CommitTypeAny && f.Author == "" && f.DateRange == DateRange{}
}
