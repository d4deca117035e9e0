package domain

import "time"

// Platform describes one syndication target and its character budget.
type Platform struct {
	Tag       string
	Label     string
	CharLimit int
	SelfLink  string
}

// FeedMeta is the feed-level metadata handed to a sink.
type FeedMeta struct {
	ID            string
	Title         string
	AlternateLink string
	SelfLink      string
	Updated       time.Time
}

// FeedEntry is one formatted, budget-constrained entry.
type FeedEntry struct {
	ID          string
	Title       string
	Link        string
	Updated     string
	UpdatedTime time.Time
	Content     string
}

// PlatformFeed holds only the entries accepted in the current run.
type PlatformFeed struct {
	Platform Platform
	Meta     FeedMeta
	Entries  []FeedEntry
}

// PlatformReport summarizes one platform build.
type PlatformReport struct {
	Tag       string
	Published []string
	Rejected  []string
	Summaries map[string]int
}

// RunReport captures what a pipeline run did.
type RunReport struct {
	Fetched    int
	Reviews    int
	Pending    int
	Platforms  []PlatformReport
	NewlyAdded int
	StateSize  int
	Published  bool
}
