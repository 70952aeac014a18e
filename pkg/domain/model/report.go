package model

// Report is a finished generation ready to be rendered or sent back
type Report struct {
	RepoURL string           `json:"repoUrl"`
	Result  GenerationResult `json:"result"`
	Authors []AuthorImage    `json:"authors"`
}

// Artifact describes where an exported document ended up
type Artifact struct {
	Name     string
	Location string
	Size     int
}
