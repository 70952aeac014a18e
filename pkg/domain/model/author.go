package model

// PlaceholderAvatarURL stands in for commits without a linked GitHub user
const PlaceholderAvatarURL = "https://via.placeholder.com/30"

// CommitAuthor is the author data of a single commit
type CommitAuthor struct {
	Name      string
	AvatarURL string
}

// AuthorImage is a unique author identified by avatar URL
type AuthorImage struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// AvatarImage is downloaded avatar data ready to embed into a document
type AvatarImage struct {
	URL  string
	Type string // "png", "jpg" or "gif"
	Data []byte
}
