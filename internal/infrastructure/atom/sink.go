package atom

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/fsutil"
	"ReviewFeeds/internal/ports"
)

const atomNS = "http://www.w3.org/2005/Atom"

// document is an Atom feed with both alternate and self links, which
// feeds.AtomFeed cannot express with its single Link field.
type document struct {
	XMLName xml.Name           `xml:"feed"`
	Xmlns   string             `xml:"xmlns,attr"`
	ID      string             `xml:"id"`
	Title   string             `xml:"title"`
	Updated string             `xml:"updated"`
	Links   []feeds.AtomLink   `xml:"link"`
	Entries []*feeds.AtomEntry `xml:"entry"`
}

// FeedXml satisfies feeds.XmlFeed.
func (d *document) FeedXml() interface{} {
	return d
}

// FileSink writes one platform feed as an Atom file.
type FileSink struct {
	path string
}

var _ ports.FeedSink = (*FileSink)(nil)

// NewFileSink binds a sink to its output path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Location returns the output path.
func (s *FileSink) Location() string {
	return s.path
}

// Stage renders the feed into a temp file beside the output path. The output
// file is replaced only on Commit.
func (s *FileSink) Stage(ctx context.Context, feed domain.PlatformFeed) (ports.StagedFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := feeds.WriteXML(Render(feed), &buf); err != nil {
		return nil, fmt.Errorf("render atom: %w", err)
	}
	buf.WriteByte('\n')

	pending, err := fsutil.Stage(s.path, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("stage feed %s: %w", s.path, err)
	}
	return pending, nil
}

// Render maps a platform feed onto Atom structures.
func Render(feed domain.PlatformFeed) feeds.XmlFeed {
	doc := &document{
		Xmlns:   atomNS,
		ID:      feed.Meta.ID,
		Title:   feed.Meta.Title,
		Updated: formatTime(feed.Meta.Updated, ""),
	}
	if feed.Meta.AlternateLink != "" {
		doc.Links = append(doc.Links, feeds.AtomLink{Href: feed.Meta.AlternateLink, Rel: "alternate"})
	}
	if feed.Meta.SelfLink != "" {
		doc.Links = append(doc.Links, feeds.AtomLink{Href: feed.Meta.SelfLink, Rel: "self"})
	}

	for _, entry := range feed.Entries {
		doc.Entries = append(doc.Entries, &feeds.AtomEntry{
			Id:      entry.ID,
			Title:   entry.Title,
			Updated: formatTime(entry.UpdatedTime, entry.Updated),
			Links:   []feeds.AtomLink{{Href: entry.Link, Rel: "alternate"}},
			Content: &feeds.AtomContent{Content: entry.Content, Type: "text"},
		})
	}
	return doc
}

func formatTime(t time.Time, fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.UTC().Format(time.RFC3339)
}
