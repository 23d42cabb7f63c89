// Package vcs reports repository activity signals for context scoring.
// Every failure path degrades to "status unavailable": a broken or absent
// git installation must never fail a selection.
package vcs

import (
	"os/exec"
	"strings"
)

// Status captures the repository signals the analyzer cares about.
type Status struct {
	// Dirty is true when the working tree has uncommitted changes.
	Dirty bool

	// Behind is true when the current branch trails its upstream.
	Behind bool
}

// StatusProvider reports repository status for a directory. The boolean is
// false when status could not be determined; callers treat that as an
// absent signal, not an error.
type StatusProvider interface {
	Status(dir string) (Status, bool)
}

// CommandRunner overrides the external command executor (git).
type CommandRunner func(dir, name string, args ...string) ([]byte, error)

// GitProvider shells out to git for repository status.
type GitProvider struct {
	runCmd CommandRunner
}

// Option customizes a GitProvider.
type Option func(*GitProvider)

// WithCommandRunner overrides how git is invoked, for tests.
func WithCommandRunner(run CommandRunner) Option {
	return func(p *GitProvider) {
		if run != nil {
			p.runCmd = run
		}
	}
}

// NewGitProvider builds a provider that invokes the real git binary.
func NewGitProvider(opts ...Option) *GitProvider {
	provider := &GitProvider{runCmd: runGit}
	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}
	return provider
}

// Status inspects the repository at dir. Porcelain output drives the dirty
// flag; rev-list against @{upstream} drives the behind flag. Either probe
// failing independently leaves the other intact; if the porcelain probe
// fails the whole status is reported unavailable.
func (p *GitProvider) Status(dir string) (Status, bool) {
	porcelain, err := p.runCmd(dir, "git", "status", "--porcelain")
	if err != nil {
		return Status{}, false
	}
	status := Status{Dirty: strings.TrimSpace(string(porcelain)) != ""}

	// Branches without an upstream make this probe fail; that is a missing
	// signal, not a dirty one.
	behind, err := p.runCmd(dir, "git", "rev-list", "--count", "HEAD..@{upstream}")
	if err == nil {
		status.Behind = strings.TrimSpace(string(behind)) != "" && strings.TrimSpace(string(behind)) != "0"
	}
	return status, true
}

func runGit(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.Output()
}
