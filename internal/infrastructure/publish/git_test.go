package publish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ReviewFeeds/internal/config"
)

type recorder struct {
	calls  []string
	failOn string
}

func (r *recorder) run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	call := name + " " + strings.Join(args, " ")
	r.calls = append(r.calls, call)
	if r.failOn != "" && strings.HasPrefix(strings.Join(args, " "), r.failOn) {
		return []byte("boom"), errors.New("exit status 1")
	}
	return nil, nil
}

func testConfig() config.PublishConfig {
	return config.PublishConfig{
		Enabled:       true,
		RepoPath:      "/srv/repo",
		Remote:        "origin",
		Branch:        "main",
		CommitMessage: "Auto-update Letterboxd feeds",
	}
}

func TestGitPublisherSequence(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	pub := NewGitPublisher(testConfig(), rec.run, nil)

	err := pub.Publish(context.Background(), []string{"/srv/repo/twitter.xml", "threads.xml"})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	want := []string{
		"git fetch origin main",
		"git reset origin/main",
		"git add -- twitter.xml threads.xml",
		"git commit -m Auto-update Letterboxd feeds",
		"git push --force origin HEAD:main",
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v", rec.calls)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, rec.calls[i], want[i])
		}
	}
}

func TestGitPublisherCommitFailureIsTolerated(t *testing.T) {
	t.Parallel()

	rec := &recorder{failOn: "commit"}
	if err := NewGitPublisher(testConfig(), rec.run, nil).Publish(context.Background(), []string{"a.xml"}); err != nil {
		t.Fatalf("empty commit should not fail publish: %v", err)
	}
}

func TestGitPublisherPushFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{failOn: "push"}
	err := NewGitPublisher(testConfig(), rec.run, nil).Publish(context.Background(), []string{"a.xml"})
	if err == nil || !strings.Contains(err.Error(), "git push") {
		t.Fatalf("expected push error, got %v", err)
	}
}

