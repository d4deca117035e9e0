package usecase

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/summary"
)

var fixedNow = time.Date(2024, time.May, 6, 12, 0, 0, 0, time.UTC)

func newTestBuilder() *Builder {
	return NewBuilder(BuilderDeps{
		FeedID:    "https://letterboxd.com/julienpierre/rss/",
		FeedTitle: "Julien’s Letterboxd",
		Clock:     func() time.Time { return fixedNow },
	})
}

func oldboy(body string) domain.ReviewRecord {
	return domain.ReviewRecord{
		Identity:    "letterboxd-review-1",
		SourceTitle: "Oldboy, 2003 - ★★★★½",
		FilmTitle:   "Oldboy",
		FilmYear:    "2003",
		Rating:      domain.ParseRating("4.5"),
		Link:        "https://letterboxd.com/julienpierre/film/oldboy/",
		BodyText:    body,
		PublishedAt: "2024-05-02T09:00:00Z",
	}
}

var twitter = domain.Platform{Tag: "twitter", Label: "Twitter", CharLimit: 280, SelfLink: "twitter.xml"}

func TestPrefixAndAllowed(t *testing.T) {
	t.Parallel()

	b := newTestBuilder()
	prefix := Prefix(oldboy(""))
	if prefix != "🎥 Oldboy, 2003\n⭐️ ★★★★½\n" {
		t.Fatalf("unexpected prefix: %q", prefix)
	}

	want := 280 - utf8.RuneCountInString(prefix) - DefaultLinkWidth - utf8.RuneCountInString(DefaultHashtag) - 1
	if got := b.Allowed(280, prefix); got != want || got != 220 {
		t.Fatalf("Allowed() = %d, want %d (220)", got, want)
	}
}

func TestBuildFormatsEntry(t *testing.T) {
	t.Parallel()

	record := oldboy("Park Chan-wook at his most feverish.")
	res := newTestBuilder().Build(context.Background(), []domain.ReviewRecord{record}, twitter, domain.NewPublicationState())

	if len(res.Feed.Entries) != 1 || len(res.Published) != 1 || len(res.Rejected) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	entry := res.Feed.Entries[0]
	if entry.ID != "letterboxd-review-1#twitter" {
		t.Fatalf("unexpected entry id: %s", entry.ID)
	}
	wantContent := "🎥 Oldboy, 2003\n⭐️ ★★★★½\nPark Chan-wook at his most feverish.\n🔗 https://letterboxd.com/julienpierre/film/oldboy/ #FilmReview"
	if entry.Content != wantContent {
		t.Fatalf("unexpected content:\n%q\nwant\n%q", entry.Content, wantContent)
	}
	if entry.Title != record.SourceTitle || entry.Link != record.Link || entry.Updated != record.PublishedAt {
		t.Fatalf("unexpected entry fields: %+v", entry)
	}
	if res.Modes[summary.ModePassthrough] != 1 {
		t.Fatalf("expected passthrough, got %v", res.Modes)
	}

	meta := res.Feed.Meta
	if meta.Title != "Julien’s Letterboxd → Twitter" || meta.ID != meta.AlternateLink || meta.SelfLink != "twitter.xml" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if !meta.Updated.Equal(fixedNow) {
		t.Fatalf("unexpected updated: %v", meta.Updated)
	}
}

func TestBuildTruncatesToBudget(t *testing.T) {
	t.Parallel()

	b := newTestBuilder()
	record := oldboy(strings.Repeat("revenge ", 80))
	res := b.Build(context.Background(), []domain.ReviewRecord{record}, twitter, domain.NewPublicationState())
	if len(res.Feed.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(res.Feed.Entries))
	}

	prefix := Prefix(record)
	suffix := "\n🔗 " + record.Link + DefaultHashtag
	content := res.Feed.Entries[0].Content
	body := strings.TrimSuffix(strings.TrimPrefix(content, prefix), suffix)

	if n := utf8.RuneCountInString(body); n > b.Allowed(280, prefix) {
		t.Fatalf("body has %d characters, budget %d", n, b.Allowed(280, prefix))
	}
	if !strings.HasSuffix(body, summary.Ellipsis) {
		t.Fatalf("expected ellipsis, got %q", body)
	}
	if res.Modes[summary.ModeTruncated] != 1 {
		t.Fatalf("expected truncation, got %v", res.Modes)
	}
}

func TestBuildGatesAndSkips(t *testing.T) {
	t.Parallel()

	published := oldboy("An already published review text.")
	published.Identity = "letterboxd-review-published"

	badRating := oldboy("A perfectly long review body text.")
	badRating.Identity = "letterboxd-review-bad-rating"
	badRating.Rating = domain.ParseRating("abc")

	short := oldboy("meh")
	short.Identity = "letterboxd-review-short"

	good := oldboy("A perfectly long review body text.")
	good.Identity = "letterboxd-review-good"

	snapshot := domain.NewPublicationState(published.Identity)
	res := newTestBuilder().Build(context.Background(),
		[]domain.ReviewRecord{published, badRating, short, good}, twitter, snapshot)

	if len(res.Published) != 1 || res.Published[0] != good.Identity {
		t.Fatalf("unexpected published: %v", res.Published)
	}
	if len(res.Rejected) != 2 || res.Rejected[0] != badRating.Identity || res.Rejected[1] != short.Identity {
		t.Fatalf("unexpected rejected: %v", res.Rejected)
	}
	if snapshot.Len() != 1 {
		t.Fatalf("Build must not mutate the snapshot, got %v", snapshot.Sorted())
	}
}
