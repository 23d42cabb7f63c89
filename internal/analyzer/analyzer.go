// Package analyzer derives a structured TaskContext from a raw task
// description and ambient project signals: marker files in the working tree,
// the optional path hint, repository status, and the detected tool/editor.
//
// The analyzer only fails on an empty description. Every ambient signal
// source that is unavailable degrades to an absent or neutral value.
package analyzer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kingrea/wayfinder/internal/vcs"
)

// ErrEmptyTask is returned when the task description is blank.
var ErrEmptyTask = errors.New("analyzer: task description is empty")

// Complexity is the coarse effort tier of a task.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// TaskContext is the structured view of one routing request. It is built
// per request and never persisted as a first-class entity; the selector
// embeds snapshots of it inside recorded outcomes.
type TaskContext struct {
	Description  string     `json:"description"`
	Normalized   string     `json:"-"`
	PathHint     string     `json:"path_hint,omitempty"`
	Technologies []string   `json:"technologies,omitempty"`
	Complexity   Complexity `json:"complexity"`
	Tool         string     `json:"tool,omitempty"`

	// VCS holds repository flags; VCSKnown is false when the provider was
	// unavailable and the flags carry no information.
	VCS      vcs.Status `json:"vcs"`
	VCSKnown bool       `json:"vcs_known"`
}

// Analyzer probes the ambient environment around a task.
type Analyzer struct {
	status     vcs.StatusProvider
	detectTool func() string
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithStatusProvider overrides the repository status source.
func WithStatusProvider(provider vcs.StatusProvider) Option {
	return func(a *Analyzer) {
		a.status = provider
	}
}

// WithToolDetector overrides environment-based tool detection.
func WithToolDetector(detect func() string) Option {
	return func(a *Analyzer) {
		if detect != nil {
			a.detectTool = detect
		}
	}
}

// New builds an analyzer with the real git provider and environment-based
// tool detection.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		status:     vcs.NewGitProvider(),
		detectTool: detectToolFromEnv,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Analyze builds the TaskContext for a description and an optional path
// hint. The hint may be a file, a directory, or empty (current directory).
func (a *Analyzer) Analyze(description, pathHint string) (TaskContext, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return TaskContext{}, ErrEmptyTask
	}

	ctx := TaskContext{
		Description: description,
		Normalized:  strings.ToLower(description),
		PathHint:    strings.TrimSpace(pathHint),
		Complexity:  classifyComplexity(strings.ToLower(description)),
	}

	dir := probeDir(ctx.PathHint)
	techs := map[string]bool{}
	for _, tech := range detectMarkerTechnologies(dir) {
		techs[tech] = true
	}
	for _, tech := range detectHintTechnologies(ctx.PathHint) {
		techs[tech] = true
	}
	ctx.Technologies = sortedKeys(techs)

	if a.status != nil {
		if status, ok := a.status.Status(dir); ok {
			ctx.VCS = status
			ctx.VCSKnown = true
		}
	}
	if a.detectTool != nil {
		ctx.Tool = a.detectTool()
	}
	return ctx, nil
}

// markerFiles maps a recognized technology stack to the files whose
// presence in the working tree indicates it.
var markerFiles = []struct {
	tech    string
	markers []string
}{
	{"go", []string{"go.mod"}},
	{"node", []string{"package.json"}},
	{"python", []string{"pyproject.toml", "requirements.txt", "setup.py"}},
	{"rust", []string{"Cargo.toml"}},
	{"java", []string{"pom.xml", "build.gradle"}},
	{"docker", []string{"Dockerfile", "docker-compose.yml"}},
	{"terraform", []string{"main.tf"}},
}

func detectMarkerTechnologies(dir string) []string {
	if dir == "" {
		return nil
	}
	var found []string
	for _, entry := range markerFiles {
		for _, marker := range entry.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				found = append(found, entry.tech)
				break
			}
		}
	}
	return found
}

// hintExtensions maps path-hint file extensions to technologies.
var hintExtensions = map[string]string{
	".go":   "go",
	".js":   "node",
	".jsx":  "node",
	".ts":   "typescript",
	".tsx":  "typescript",
	".py":   "python",
	".rs":   "rust",
	".java": "java",
	".tf":   "terraform",
	".css":  "css",
	".sql":  "sql",
}

func detectHintTechnologies(hint string) []string {
	if hint == "" {
		return nil
	}
	var found []string
	if tech, ok := hintExtensions[strings.ToLower(filepath.Ext(hint))]; ok {
		found = append(found, tech)
	}
	lower := strings.ToLower(hint)
	if strings.Contains(lower, "dockerfile") {
		found = append(found, "docker")
	}
	return found
}

// complexityTiers are evaluated in order; the first tier whose keyword set
// matches a word of the description wins. Default is medium.
var complexityTiers = []struct {
	tier     Complexity
	keywords []string
}{
	{ComplexitySimple, []string{"typo", "rename", "bump", "tweak", "cleanup", "comment", "format"}},
	{ComplexityComplex, []string{"architecture", "refactor", "redesign", "migrate", "migration", "security", "concurrency", "distributed", "overhaul"}},
}

func classifyComplexity(normalized string) Complexity {
	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	for _, tier := range complexityTiers {
		for _, keyword := range tier.keywords {
			if set[keyword] {
				return tier.tier
			}
		}
	}
	return ComplexityMedium
}

// probeDir resolves the directory whose marker files should be checked.
func probeDir(hint string) string {
	if hint == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return ""
		}
		return cwd
	}
	info, err := os.Stat(hint)
	if err != nil {
		// The hint may name a file that does not exist yet; fall back to
		// its parent directory.
		return filepath.Dir(hint)
	}
	if info.IsDir() {
		return hint
	}
	return filepath.Dir(hint)
}

// detectToolFromEnv identifies the editor/terminal driving this invocation.
func detectToolFromEnv() string {
	switch {
	case os.Getenv("VSCODE_PID") != "" || os.Getenv("TERM_PROGRAM") == "vscode":
		return "vscode"
	case os.Getenv("TERMINAL_EMULATOR") != "" && strings.Contains(strings.ToLower(os.Getenv("TERMINAL_EMULATOR")), "jetbrains"):
		return "jetbrains"
	case os.Getenv("TMUX") != "":
		return "terminal"
	case os.Getenv("TERM") != "":
		return "terminal"
	}
	return ""
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Describe renders a short human summary used by logbook entries.
func (c TaskContext) Describe() string {
	parts := []string{fmt.Sprintf("complexity=%s", c.Complexity)}
	if len(c.Technologies) > 0 {
		parts = append(parts, "tech="+strings.Join(c.Technologies, ","))
	}
	if c.Tool != "" {
		parts = append(parts, "tool="+c.Tool)
	}
	if c.VCSKnown {
		parts = append(parts, fmt.Sprintf("dirty=%t behind=%t", c.VCS.Dirty, c.VCS.Behind))
	}
	return strings.Join(parts, " ")
}
