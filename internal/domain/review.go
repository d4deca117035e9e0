package domain

import "time"

// RawEntry is one upstream feed item before normalization.
type RawEntry struct {
	GUID        string
	ID          string
	Title       string
	Link        string
	Description string
	Content     string
	Updated     string
	Published   string
	UpdatedAt   *time.Time
	PublishedAt *time.Time
	// Metadata carries structured per-field values supplied by the source
	// (filmTitle, filmYear, memberRating).
	Metadata map[string]string
}

// Structured metadata keys understood by the normalizer.
const (
	MetaFilmTitle    = "filmTitle"
	MetaFilmYear     = "filmYear"
	MetaMemberRating = "memberRating"
)

// ReviewRecord is the canonical, immutable review extracted from a RawEntry.
type ReviewRecord struct {
	Identity      string
	SourceTitle   string
	FilmTitle     string
	FilmYear      string
	Rating        Rating
	Link          string
	BodyText      string
	PublishedAt   string
	PublishedTime time.Time
}

// SkipReason explains why a record was not formatted into a feed.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipPublished     SkipReason = "already_published"
	SkipInvalidRating SkipReason = "invalid_rating"
	SkipTooShort      SkipReason = "body_too_short"
)

// Marks reports whether a skip must still record the identity as processed.
func (r SkipReason) Marks() bool {
	return r == SkipInvalidRating || r == SkipTooShort
}
