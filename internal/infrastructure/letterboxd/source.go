package letterboxd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/ports"
)

// namespace is the extension prefix Letterboxd uses for structured film data.
const namespace = "letterboxd"

// Source pulls a Letterboxd member RSS feed.
type Source struct {
	feedURL   string
	userAgent string
	client    *http.Client
	parser    *gofeed.Parser
	logger    *slog.Logger
}

var _ ports.ReviewSource = (*Source)(nil)

// NewSource wires an HTTP client; a nil client gets a 20s timeout.
func NewSource(feedURL, userAgent string, client *http.Client, logger *slog.Logger) *Source {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = "ReviewFeeds/1.0"
	}
	return &Source{
		feedURL:   feedURL,
		userAgent: userAgent,
		client:    client,
		parser:    gofeed.NewParser(),
		logger:    logger,
	}
}

// URL identifies the upstream feed; generated feeds reuse it as their id.
func (s *Source) URL() string {
	return s.feedURL
}

// Fetch downloads and parses the feed, preserving upstream order.
func (s *Source) Fetch(ctx context.Context) ([]domain.RawEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("letterboxd returned %s", resp.Status)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]domain.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toRawEntry(item))
	}

	if s.logger != nil {
		s.logger.Debug("feed fetched", "url", s.feedURL, "items", len(entries))
	}
	return entries, nil
}

func toRawEntry(item *gofeed.Item) domain.RawEntry {
	return domain.RawEntry{
		GUID:        strings.TrimSpace(item.GUID),
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Content:     item.Content,
		Updated:     strings.TrimSpace(item.Updated),
		Published:   strings.TrimSpace(item.Published),
		UpdatedAt:   item.UpdatedParsed,
		PublishedAt: item.PublishedParsed,
		Metadata:    structuredMetadata(item.Extensions),
	}
}

func structuredMetadata(extensions ext.Extensions) map[string]string {
	fields, ok := extensions[namespace]
	if !ok {
		return nil
	}

	meta := map[string]string{}
	for _, key := range []string{domain.MetaFilmTitle, domain.MetaFilmYear, domain.MetaMemberRating} {
		values := fields[key]
		if len(values) == 0 {
			continue
		}
		if v := strings.TrimSpace(values[0].Value); v != "" {
			meta[key] = v
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
