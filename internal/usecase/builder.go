package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/review"
	"ReviewFeeds/internal/summary"
)

// DefaultLinkWidth is the display width platforms give any URL after
// shortening; the real link length is irrelevant to the budget.
const DefaultLinkWidth = 23

// DefaultHashtag closes every rendered entry.
const DefaultHashtag = " #FilmReview"

// Layout holds the decorative pieces wrapped around every review body.
type Layout struct {
	Hashtag   string
	LinkWidth int
}

// BuilderDeps wires the Feed Builder.
type BuilderDeps struct {
	Budget    *summary.Budget
	Layout    Layout
	FeedID    string
	FeedTitle string
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Builder formats review records into one budget-constrained platform feed.
type Builder struct {
	budget    *summary.Budget
	layout    Layout
	feedID    string
	feedTitle string
	clock     func() time.Time
	logger    *slog.Logger
}

// BuildResult is the delta feed plus the identities it touched.
type BuildResult struct {
	Feed      domain.PlatformFeed
	Published []string
	Rejected  []string
	Modes     map[summary.Mode]int
}

// NewBuilder applies defaults for an empty layout and clock.
func NewBuilder(deps BuilderDeps) *Builder {
	layout := deps.Layout
	if layout.LinkWidth <= 0 {
		layout.LinkWidth = DefaultLinkWidth
	}
	if layout.Hashtag == "" {
		layout.Hashtag = DefaultHashtag
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	budget := deps.Budget
	if budget == nil {
		budget = summary.NewBudget(nil, deps.Logger)
	}
	return &Builder{
		budget:    budget,
		layout:    layout,
		feedID:    deps.FeedID,
		feedTitle: deps.FeedTitle,
		clock:     clock,
		logger:    deps.Logger,
	}
}

// Build processes records in order against the published snapshot. The
// snapshot is only read.
func (b *Builder) Build(ctx context.Context, records []domain.ReviewRecord, platform domain.Platform, published domain.PublicationState) BuildResult {
	result := BuildResult{
		Feed: domain.PlatformFeed{
			Platform: platform,
			Meta: domain.FeedMeta{
				ID:            b.feedID,
				Title:         fmt.Sprintf("%s → %s", b.feedTitle, platform.Label),
				AlternateLink: b.feedID,
				SelfLink:      platform.SelfLink,
				Updated:       b.clock().UTC(),
			},
		},
		Modes: map[summary.Mode]int{},
	}

	for _, record := range records {
		if published.Has(record.Identity) {
			b.debug("skip", "platform", platform.Tag, "identity", record.Identity, "reason", domain.SkipPublished)
			continue
		}

		if reason := review.Gate(record); reason != domain.SkipNone {
			b.info("skip", "platform", platform.Tag, "identity", record.Identity, "reason", reason)
			if reason.Marks() {
				result.Rejected = append(result.Rejected, record.Identity)
			}
			continue
		}

		entry, mode := b.format(ctx, record, platform)
		result.Feed.Entries = append(result.Feed.Entries, entry)
		result.Published = append(result.Published, record.Identity)
		result.Modes[mode]++
		b.info("added", "platform", platform.Tag, "identity", record.Identity, "mode", mode,
			"length", utf8.RuneCountInString(entry.Content))
	}

	return result
}

func (b *Builder) format(ctx context.Context, record domain.ReviewRecord, platform domain.Platform) (domain.FeedEntry, summary.Mode) {
	prefix := Prefix(record)
	suffix := "\n🔗 " + record.Link + b.layout.Hashtag
	allowed := b.Allowed(platform.CharLimit, prefix)

	body := b.budget.Fit(ctx, record.BodyText, allowed)

	return domain.FeedEntry{
		ID:          record.Identity + "#" + platform.Tag,
		Title:       record.SourceTitle,
		Link:        record.Link,
		Updated:     record.PublishedAt,
		UpdatedTime: record.PublishedTime,
		Content:     prefix + body.Text + suffix,
	}, body.Mode
}

// Allowed is the body budget left once the prefix, the shortened link and
// the hashtag are accounted for.
func (b *Builder) Allowed(charLimit int, prefix string) int {
	return charLimit -
		utf8.RuneCountInString(prefix) -
		b.layout.LinkWidth -
		utf8.RuneCountInString(b.layout.Hashtag) -
		1
}

// Prefix renders the film header placed above every review body.
func Prefix(record domain.ReviewRecord) string {
	return fmt.Sprintf("🎥 %s, %s\n⭐️ %s\n", record.FilmTitle, record.FilmYear, record.Rating.Glyphs())
}

func (b *Builder) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

func (b *Builder) info(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Info(msg, args...)
	}
}
