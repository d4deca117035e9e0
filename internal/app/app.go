package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ReviewFeeds/internal/config"
	"ReviewFeeds/internal/domain"
	"ReviewFeeds/internal/infrastructure/atom"
	"ReviewFeeds/internal/infrastructure/letterboxd"
	"ReviewFeeds/internal/infrastructure/llm"
	"ReviewFeeds/internal/infrastructure/ml"
	"ReviewFeeds/internal/infrastructure/publish"
	"ReviewFeeds/internal/infrastructure/scheduler"
	"ReviewFeeds/internal/infrastructure/storage"
	"ReviewFeeds/internal/infrastructure/telegram"
	"ReviewFeeds/internal/logging"
	"ReviewFeeds/internal/ports"
	"ReviewFeeds/internal/review"
	"ReviewFeeds/internal/summary"
	"ReviewFeeds/internal/usecase"
)

// ErrLocked is returned when another process holds the state lock.
var ErrLocked = errors.New("another run holds the state lock")

// Options are process-level switches that do not belong in the config file.
type Options struct {
	NoPublish bool
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	lock     *flock.Flock
	closers  []func() error
}

// New builds a runnable application instance from validated config.
func New(ctx context.Context, cfg config.Config, opts Options, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	var httpClient *http.Client
	if cfg.Source.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: time.Duration(cfg.Source.TimeoutSeconds) * time.Second}
	}
	source := letterboxd.NewSource(cfg.Source.FeedURL, cfg.Source.UserAgent, httpClient,
		baseLogger.With("component", "source.letterboxd"))

	budget := summary.NewBudget(a.summarizer(), baseLogger.With("component", "summary"))
	builder := usecase.NewBuilder(usecase.BuilderDeps{
		Budget:    budget,
		Layout:    usecase.Layout{Hashtag: cfg.Feeds.Hashtag, LinkWidth: cfg.Feeds.LinkWidth},
		FeedID:    source.URL(),
		FeedTitle: cfg.Feeds.Title,
		Logger:    baseLogger.With("component", "builder"),
	})

	var publisher ports.Publisher
	if cfg.Publish.Enabled && !opts.NoPublish {
		publisher = publish.NewGitPublisher(cfg.Publish, publish.ExecRunner, baseLogger.With("component", "publish.git"))
	}

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram); tg.Configured() {
		notifier = tg
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Store:      store,
		Normalizer: review.NewNormalizer(cfg.Source.IdentityPrefix),
		Builder:    builder,
		Targets:    targets(cfg.Feeds),
		Publisher:  publisher,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})
	return a, nil
}

// Run performs a single pipeline execution under the state lock.
func (a *Application) Run(ctx context.Context, opts usecase.RunOptions) (domain.RunReport, error) {
	if err := a.acquire(); err != nil {
		return domain.RunReport{}, err
	}
	defer a.release()

	return a.pipeline.Run(ctx, opts)
}

// Serve runs the pipeline immediately and then every interval until ctx is
// cancelled. The state lock is held for the whole lifetime.
func (a *Application) Serve(ctx context.Context, opts usecase.RunOptions, interval time.Duration) error {
	if interval <= 0 {
		_, err := a.Run(ctx, opts)
		return err
	}
	if err := a.acquire(); err != nil {
		return err
	}
	defer a.release()

	sched := usecase.NewScheduler(scheduler.NewIntervalScheduler(interval), a.pipeline, opts,
		a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "interval", interval.String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}

// Close releases storage handles.
func (a *Application) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func (a *Application) openStore(ctx context.Context) (ports.StateStore, error) {
	switch a.cfg.State.Driver {
	case config.StateDriverSQLite:
		store, err := storage.OpenSQLiteStore(ctx, a.cfg.State.Path)
		if err != nil {
			return nil, fmt.Errorf("open state: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return storage.NewJSONStore(a.cfg.State.Path), nil
	}
}

// summarizer picks the configured backend. A backend that cannot be
// constructed degrades to truncation only.
func (a *Application) summarizer() ports.Summarizer {
	log := a.logger.With("component", "summary")

	switch a.cfg.Summarizer.Backend {
	case config.BackendChatGPT:
		client, err := llm.NewChatGPTClient(a.cfg.ChatGPT)
		if err != nil {
			log.Warn("chatgpt summarizer unavailable, using truncation", "error", err)
			return summary.NoopBackend{}
		}
		return client
	case config.BackendML:
		client, err := ml.NewClient(a.cfg.ML.InferenceURL, a.cfg.ML.APIKey)
		if err != nil {
			log.Warn("ml summarizer unavailable, using truncation", "error", err)
			return summary.NoopBackend{}
		}
		return client
	default:
		return summary.NoopBackend{}
	}
}

func (a *Application) acquire() error {
	lockPath := a.cfg.State.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}

	a.lock = flock.New(lockPath)
	ok, err := a.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}
	return nil
}

func (a *Application) release() {
	if a.lock == nil {
		return
	}
	if err := a.lock.Unlock(); err != nil {
		a.logger.Warn("failed to release state lock", "error", err)
	}
}

func targets(cfg config.FeedsConfig) []usecase.Target {
	title := cases.Title(language.English)

	out := make([]usecase.Target, 0, len(cfg.Platforms))
	for _, p := range cfg.Platforms {
		out = append(out, usecase.Target{
			Platform: domain.Platform{
				Tag:       p.Tag,
				Label:     title.String(p.Tag),
				CharLimit: p.CharLimit,
				SelfLink:  cfg.SelfLink(p),
			},
			Sink: atom.NewFileSink(cfg.OutputPath(p)),
		})
	}
	return out
}
