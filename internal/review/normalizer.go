package review

import (
	"strings"
	"unicode/utf8"

	"ReviewFeeds/internal/domain"
)

// DefaultIdentityPrefix marks review entries in a Letterboxd member feed.
const DefaultIdentityPrefix = "letterboxd-review-"

// Normalizer turns raw upstream entries into review records.
type Normalizer struct {
	identityPrefix string
}

// NewNormalizer builds a normalizer; an empty prefix uses the default.
func NewNormalizer(identityPrefix string) *Normalizer {
	if identityPrefix == "" {
		identityPrefix = DefaultIdentityPrefix
	}
	return &Normalizer{identityPrefix: identityPrefix}
}

// Normalize returns false when the entry is not a review at all.
func (n *Normalizer) Normalize(raw domain.RawEntry) (domain.ReviewRecord, bool) {
	identity := strings.TrimSpace(raw.GUID)
	if identity == "" {
		identity = strings.TrimSpace(raw.ID)
	}
	if identity == "" || !strings.HasPrefix(identity, n.identityPrefix) {
		return domain.ReviewRecord{}, false
	}

	record := domain.ReviewRecord{
		Identity:    identity,
		SourceTitle: raw.Title,
		Link:        raw.Link,
	}
	record.FilmTitle, record.FilmYear, record.Rating = filmMetadata(raw)

	body := raw.Description
	if strings.TrimSpace(body) == "" {
		body = raw.Content
	}
	record.BodyText = ExtractText(body)

	switch {
	case raw.Updated != "":
		record.PublishedAt = raw.Updated
		if raw.UpdatedAt != nil {
			record.PublishedTime = *raw.UpdatedAt
		}
	case raw.Published != "":
		record.PublishedAt = raw.Published
		if raw.PublishedAt != nil {
			record.PublishedTime = *raw.PublishedAt
		}
	}

	return record, true
}

func filmMetadata(raw domain.RawEntry) (string, string, domain.Rating) {
	title, year, stars := ParseTitle(raw.Title)

	meta := raw.Metadata
	if v := strings.TrimSpace(meta[domain.MetaFilmTitle]); v != "" {
		title = v
	}
	if v := strings.TrimSpace(meta[domain.MetaFilmYear]); v != "" {
		year = v
	}
	if v := strings.TrimSpace(meta[domain.MetaMemberRating]); v != "" {
		stars = v
	}

	return title, year, domain.ParseRating(stars)
}

// Gate applies the content rules a record must satisfy before formatting.
func Gate(record domain.ReviewRecord) domain.SkipReason {
	if !record.Rating.Valid {
		return domain.SkipInvalidRating
	}
	if utf8.RuneCountInString(record.BodyText) < MinBodyLength {
		return domain.SkipTooShort
	}
	return domain.SkipNone
}
