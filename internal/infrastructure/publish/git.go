package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"ReviewFeeds/internal/config"
	"ReviewFeeds/internal/ports"
)

// Runner executes one command in dir and returns its combined output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// GitPublisher force-overwrites the remote branch with the freshly written
// feed files.
type GitPublisher struct {
	repo    string
	remote  string
	branch  string
	message string
	run     Runner
	logger  *slog.Logger
}

var _ ports.Publisher = (*GitPublisher)(nil)

// NewGitPublisher builds a publisher; a nil runner uses ExecRunner.
func NewGitPublisher(cfg config.PublishConfig, run Runner, logger *slog.Logger) *GitPublisher {
	if run == nil {
		run = ExecRunner
	}
	return &GitPublisher{
		repo:    cfg.RepoPath,
		remote:  cfg.Remote,
		branch:  cfg.Branch,
		message: cfg.CommitMessage,
		run:     run,
		logger:  logger,
	}
}

// Publish fetches the remote branch, moves HEAD and the index onto it while
// keeping the working tree, commits the feed files and force pushes.
// An empty commit is not an error.
func (p *GitPublisher) Publish(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	rel := make([]string, 0, len(files))
	for _, f := range files {
		rel = append(rel, p.relative(f))
	}

	remoteRef := p.remote + "/" + p.branch
	if err := p.git(ctx, "fetch", p.remote, p.branch); err != nil {
		return err
	}
	if err := p.git(ctx, "reset", remoteRef); err != nil {
		return err
	}
	if err := p.git(ctx, append([]string{"add", "--"}, rel...)...); err != nil {
		return err
	}

	out, err := p.run(ctx, p.repo, "git", "commit", "-m", p.message)
	if err != nil {
		p.debug("nothing committed", "output", strings.TrimSpace(string(out)))
	}

	if err := p.git(ctx, "push", "--force", p.remote, "HEAD:"+p.branch); err != nil {
		return err
	}

	if p.logger != nil {
		p.logger.Info("force-pushed feeds", "remote", p.remote, "branch", p.branch, "files", len(rel))
	}
	return nil
}

func (p *GitPublisher) git(ctx context.Context, args ...string) error {
	out, err := p.run(ctx, p.repo, "git", args...)
	if err != nil {
		return fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (p *GitPublisher) relative(file string) string {
	if !filepath.IsAbs(file) {
		return file
	}
	repo, err := filepath.Abs(p.repo)
	if err != nil {
		return file
	}
	if rel, err := filepath.Rel(repo, file); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return file
}

func (p *GitPublisher) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

