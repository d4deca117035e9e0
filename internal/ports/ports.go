package ports

import (
	"context"
	"time"

	"ReviewFeeds/internal/domain"
)

// ReviewSource pulls the raw upstream review feed, newest first.
type ReviewSource interface {
	Fetch(ctx context.Context) ([]domain.RawEntry, error)
}

// StateStore persists the publication state as a single unit.
type StateStore interface {
	Load(ctx context.Context) (domain.PublicationState, error)
	Save(ctx context.Context, state domain.PublicationState) error
	Clear(ctx context.Context) error
}

// Summarizer shortens text towards a target length (e.g., an LLM backend).
type Summarizer interface {
	Summarize(ctx context.Context, text string, targetLength int) (string, error)
}

// FeedSink serializes one platform feed to its output location. Stage must
// not touch the output location; the returned StagedFeed makes it visible.
type FeedSink interface {
	Stage(ctx context.Context, feed domain.PlatformFeed) (StagedFeed, error)
	Location() string
}

// StagedFeed is a rendered feed awaiting publication to its location.
type StagedFeed interface {
	Commit() error
	Discard() error
}

// Publisher performs the opaque publish side effect for written feeds.
type Publisher interface {
	Publish(ctx context.Context, files []string) error
}

// Notifier streams a short run digest to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
