package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/ports"
	"ReviewFeeds/internal/review"
)

// Target pairs a platform with the sink its feed is written to.
type Target struct {
	Platform domain.Platform
	Sink     ports.FeedSink
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ReviewSource
	Store      ports.StateStore
	Normalizer *review.Normalizer
	Builder    *Builder
	Targets    []Target
	Publisher  ports.Publisher
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// RunOptions carries per-run CLI overrides.
type RunOptions struct {
	// Limit keeps only the newest N upstream entries and ignores the
	// persisted state while building.
	Limit int
	// ClearState deletes the persisted state before loading it.
	ClearState bool
}

// Pipeline implements the review-syndication workflow.
type Pipeline struct {
	source     ports.ReviewSource
	store      ports.StateStore
	normalizer *review.Normalizer
	builder    *Builder
	targets    []Target
	publisher  ports.Publisher
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = review.NewNormalizer("")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		source:     deps.Source,
		store:      deps.Store,
		normalizer: normalizer,
		builder:    deps.Builder,
		targets:    deps.Targets,
		publisher:  deps.Publisher,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

// Run executes Load State → Fetch → Normalize → Build (per platform) →
// Write (stage all, then commit) → Persist → Publish. Any fatal error aborts
// before the next phase.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (domain.RunReport, error) {
	var report domain.RunReport
	if p.source == nil || p.store == nil || p.builder == nil {
		return report, fmt.Errorf("pipeline is not fully configured")
	}

	if opts.ClearState {
		if err := p.store.Clear(ctx); err != nil {
			return report, fmt.Errorf("clear state: %w", err)
		}
		p.logger.Info("state cleared")
	}

	loaded, err := p.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load state: %w", err)
	}

	raw, err := p.source.Fetch(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch reviews: %w", err)
	}
	report.Fetched = len(raw)
	if opts.Limit > 0 && len(raw) > opts.Limit {
		raw = raw[:opts.Limit]
	}

	records := p.normalizeAll(raw)
	report.Reviews = len(records)

	snapshot := loaded
	if opts.Limit > 0 {
		p.logger.Info("test mode: ignoring persisted state", "limit", opts.Limit)
		snapshot = domain.NewPublicationState()
	}

	pending := make([]domain.ReviewRecord, 0, len(records))
	for _, record := range records {
		if !snapshot.Has(record.Identity) {
			pending = append(pending, record)
		}
	}
	report.Pending = len(pending)

	results := make([]BuildResult, 0, len(p.targets))
	for _, target := range p.targets {
		results = append(results, p.builder.Build(ctx, pending, target.Platform, snapshot))
	}

	files, err := p.writeFeeds(ctx, results)
	if err != nil {
		return report, err
	}

	next := loaded.Clone()
	for i, target := range p.targets {
		next.Merge(results[i].Published)
		next.Merge(results[i].Rejected)
		report.Platforms = append(report.Platforms, domain.PlatformReport{
			Tag:       target.Platform.Tag,
			Published: results[i].Published,
			Rejected:  results[i].Rejected,
			Summaries: modeCounts(results[i]),
		})
	}
	if err := p.store.Save(ctx, next); err != nil {
		return report, fmt.Errorf("persist state: %w", err)
	}
	report.NewlyAdded = next.Len() - loaded.Len()
	report.StateSize = next.Len()

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, files); err != nil {
			return report, fmt.Errorf("publish feeds: %w", err)
		}
		report.Published = true
	}

	p.notify(ctx, pending, results)

	p.logger.Info("run complete",
		"fetched", report.Fetched,
		"reviews", report.Reviews,
		"pending", report.Pending,
		"newly_marked", report.NewlyAdded,
		"state_size", report.StateSize)
	return report, nil
}

// writeFeeds stages every feed before committing any, so a render or write
// failure on one platform leaves all output locations untouched.
func (p *Pipeline) writeFeeds(ctx context.Context, results []BuildResult) ([]string, error) {
	staged := make([]ports.StagedFeed, 0, len(p.targets))
	discard := func() {
		for _, s := range staged {
			if err := s.Discard(); err != nil {
				p.logger.Warn("discard staged feed failed", "error", err)
			}
		}
	}

	for i, target := range p.targets {
		s, err := target.Sink.Stage(ctx, results[i].Feed)
		if err != nil {
			discard()
			return nil, fmt.Errorf("write %s feed: %w", target.Platform.Tag, err)
		}
		staged = append(staged, s)
	}

	files := make([]string, 0, len(p.targets))
	for i, target := range p.targets {
		if err := staged[i].Commit(); err != nil {
			discard()
			return nil, fmt.Errorf("commit %s feed: %w", target.Platform.Tag, err)
		}
		files = append(files, target.Sink.Location())
		p.logger.Info("wrote feed", "platform", target.Platform.Tag, "path", target.Sink.Location(),
			"entries", len(results[i].Feed.Entries))
	}
	return files, nil
}

// normalizeAll reverses the newest-first upstream order and normalizes each
// entry. When every record carries a parsed timestamp the result is also
// stably sorted oldest first.
func (p *Pipeline) normalizeAll(raw []domain.RawEntry) []domain.ReviewRecord {
	records := make([]domain.ReviewRecord, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		record, ok := p.normalizer.Normalize(raw[i])
		if !ok {
			p.logger.Debug("skip", "guid", raw[i].GUID, "reason", "not_a_review")
			continue
		}
		records = append(records, record)
	}

	timed := true
	for _, r := range records {
		if r.PublishedTime.IsZero() {
			timed = false
			break
		}
	}
	if timed {
		slices.SortStableFunc(records, func(a, b domain.ReviewRecord) int {
			return a.PublishedTime.Compare(b.PublishedTime)
		})
	}
	return records
}

func (p *Pipeline) notify(ctx context.Context, pending []domain.ReviewRecord, results []BuildResult) {
	if p.notifier == nil {
		return
	}

	published := domain.NewPublicationState()
	for _, res := range results {
		published.Merge(res.Published)
	}
	if published.Len() == 0 {
		return
	}

	var accepted []domain.ReviewRecord
	for _, record := range pending {
		if published.Has(record.Identity) {
			accepted = append(accepted, record)
		}
	}

	if err := p.notifier.PublishDigest(ctx, buildDigestMessage(accepted)); err != nil {
		p.logger.Warn("notify failed", "error", err)
	}
}

func buildDigestMessage(records []domain.ReviewRecord) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d new review(s) syndicated\n", len(records))
	for _, r := range records {
		fmt.Fprintf(&b, "- %s (%s) %s\n%s\n", r.FilmTitle, r.FilmYear, r.Rating.Glyphs(), r.Link)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func modeCounts(res BuildResult) map[string]int {
	out := make(map[string]int, len(res.Modes))
	for mode, n := range res.Modes {
		out[string(mode)] = n
	}
	return out
}
