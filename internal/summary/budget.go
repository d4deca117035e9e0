package summary

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"ReviewFeeds/internal/ports"
)

// Ellipsis is appended to hard-truncated text.
const Ellipsis = "..."

// ErrUnavailable is returned by backends that cannot summarize at all.
var ErrUnavailable = errors.New("summarizer unavailable")

// Mode records which branch produced a Result.
type Mode string

const (
	ModePassthrough Mode = "passthrough"
	ModeSummarized  Mode = "summarized"
	ModeTruncated   Mode = "truncated"
)

// Result is text guaranteed to fit the requested budget.
type Result struct {
	Text string
	Mode Mode
}

// NoopBackend is the capability used when no summarizer is configured or the
// configured one failed to initialize. It always defers to truncation.
type NoopBackend struct{}

var _ ports.Summarizer = NoopBackend{}

// Summarize always reports ErrUnavailable.
func (NoopBackend) Summarize(context.Context, string, int) (string, error) {
	return "", ErrUnavailable
}

// Budget fits review text into a per-entry character budget.
type Budget struct {
	backend ports.Summarizer
	logger  *slog.Logger
}

// NewBudget selects the backend once; nil means truncation only.
func NewBudget(backend ports.Summarizer, logger *slog.Logger) *Budget {
	if backend == nil {
		backend = NoopBackend{}
	}
	return &Budget{backend: backend, logger: logger}
}

// Fit returns text of at most allowed characters (runes). Text that already
// fits is returned unchanged.
func (b *Budget) Fit(ctx context.Context, text string, allowed int) Result {
	if utf8.RuneCountInString(text) <= allowed {
		return Result{Text: text, Mode: ModePassthrough}
	}

	summary, err := b.backend.Summarize(ctx, text, allowed)
	switch {
	case errors.Is(err, ErrUnavailable):
		b.debug("summarizer unavailable, truncating", "allowed", allowed)
	case err != nil:
		b.warn("summarizer failed, truncating", "allowed", allowed, "error", err)
	default:
		summary = collapseLines(summary)
		length := utf8.RuneCountInString(summary)
		if summary != "" && length <= allowed {
			return Result{Text: summary, Mode: ModeSummarized}
		}
		b.warn("summary does not fit, truncating", "allowed", allowed, "length", length)
	}

	return Result{Text: Truncate(text, allowed), Mode: ModeTruncated}
}

// Truncate cuts trimmed text to allowed-3 runes and appends Ellipsis. Budgets
// too small for the marker get a plain cut.
func Truncate(text string, allowed int) string {
	if allowed <= 0 {
		return ""
	}
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= allowed {
		return text
	}
	if allowed <= len(Ellipsis) {
		return string(runes[:allowed])
	}
	cut := strings.TrimRightFunc(string(runes[:allowed-len(Ellipsis)]), unicode.IsSpace)
	return cut + Ellipsis
}

func collapseLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

func (b *Budget) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

func (b *Budget) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}
