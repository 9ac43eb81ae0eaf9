// Package update reports whether the bundled superpowers checkout is behind
// its upstream. Every failure collapses to "no update": the check is best
// effort and must never get in the way of the host.
package update

import (
	"context"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
	"github.com/superpowers-pi/superpowers/pkg/logger"
)

// DefaultTimeout bounds the fetch from upstream
const DefaultTimeout = 3 * time.Second

// Checker compares a local checkout with its upstream tracking branch
type Checker struct {
	fetch   bool
	timeout time.Duration
}

// Option is a function that configures a Checker
type Option func(*Checker)

// WithTimeout sets the fetch timeout. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		c.timeout = timeout
	}
}

// WithoutFetch compares against the last fetched upstream state only
func WithoutFetch() Option {
	return func(c *Checker) {
		c.fetch = false
	}
}

// NewChecker creates a checker that fetches before comparing
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		fetch:   true,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasUpdates returns true when upstream has commits the local branch lacks.
// Detached heads, missing upstreams, network failures and directories that
// are not checkouts all report false.
func (c *Checker) HasUpdates(ctx context.Context, repoDir string) bool {
	behind, err := c.behind(ctx, repoDir)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("repo", repoDir).Debug("update check failed")
		return false
	}
	return behind
}

func (c *Checker) behind(ctx context.Context, repoDir string) (bool, error) {
	repo, err := gogit.PlainOpenWithOptions(repoDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, errors.Wrap(err, "failed to open repository")
	}

	head, err := repo.Head()
	if err != nil {
		return false, errors.Wrap(err, "failed to resolve HEAD")
	}
	if !head.Name().IsBranch() {
		return false, errors.New("HEAD is detached")
	}

	cfg, err := repo.Config()
	if err != nil {
		return false, errors.Wrap(err, "failed to read repository config")
	}
	branch, ok := cfg.Branches[head.Name().Short()]
	if !ok || branch.Remote == "" || branch.Merge == "" {
		return false, errors.Errorf("branch %s has no upstream", head.Name().Short())
	}

	if c.fetch {
		if err := c.fetchRemote(ctx, repo, branch.Remote); err != nil {
			return false, err
		}
	}

	upstreamName := plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short())
	upstream, err := repo.Reference(upstreamName, true)
	if err != nil {
		return false, errors.Wrapf(err, "failed to resolve %s", upstreamName)
	}

	if upstream.Hash() == head.Hash() {
		return false, nil
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return false, errors.Wrap(err, "failed to load HEAD commit")
	}
	upstreamCommit, err := repo.CommitObject(upstream.Hash())
	if err != nil {
		return false, errors.Wrap(err, "failed to load upstream commit")
	}

	// Upstream already contained in HEAD means we are level or ahead
	contained, err := upstreamCommit.IsAncestor(headCommit)
	if err != nil {
		return false, errors.Wrap(err, "failed to compare commits")
	}
	return !contained, nil
}

func (c *Checker) fetchRemote(ctx context.Context, repo *gogit.Repository, remote string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	err := repo.FetchContext(ctx, &gogit.FetchOptions{RemoteName: remote})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, "failed to fetch %s", remote)
	}
	return nil
}

// StatusMessage renders the human-readable status line for the update command
func StatusMessage(hasUpdates bool, repoDir string) string {
	if hasUpdates {
		return "Superpowers update available!\nTo update, run: cd " + repoDir + " && git pull"
	}
	return "Superpowers is up to date"
}
