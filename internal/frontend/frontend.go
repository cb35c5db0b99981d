package frontend

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/hotswap-labs/hotswap/internal/branding"
	"github.com/hotswap-labs/hotswap/internal/config"
	"github.com/hotswap-labs/hotswap/internal/project"
	"github.com/hotswap-labs/hotswap/internal/scaffold"
)

// ViewsDir holds the Blade templates whose @vite directives are rewritten.
const ViewsDir = "resources/views"

// BladeGlob selects Blade templates under ViewsDir.
const BladeGlob = "**/*.blade.php"

var viteDirective = regexp.MustCompile(`(?s)@vite\s*\(\s*\[.*?\]\s*\)`)

// Result describes what Apply changed.
type Result struct {
	Frontend     string
	Entry        string   // project-relative entry point
	EntryChanged bool     // false when the entry already had this content
	Views        []string // rewritten Blade templates, project-relative
	EnvChanged   bool
	Warnings     []string
}

// Scaffolder applies a front-end variant to one project.
type Scaffolder struct {
	root   project.Root
	logger *log.Logger
}

// New returns a Scaffolder for root.
func New(root project.Root, logger *log.Logger) *Scaffolder {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Scaffolder{root: root, logger: logger}
}

// Apply writes the entry point for frontend, rewrites the Blade @vite
// directives and records the choice in .env. Running it again with the
// same choice changes nothing.
func (s *Scaffolder) Apply(frontend string) (*Result, error) {
	content, rel, err := scaffold.HostEntry(frontend)
	if err != nil {
		return nil, err
	}
	res := &Result{Frontend: frontend, Entry: rel}

	res.EntryChanged, err = writeIfChanged(s.root.Path(rel), content)
	if err != nil {
		return res, err
	}
	if res.EntryChanged {
		s.logger.Info("entry point written", "file", rel)
	}

	views, err := s.rewriteViews(rel, res)
	if err != nil {
		return res, err
	}
	res.Views = views

	envPath := s.root.Path(config.DotEnvFile)
	data, err := os.ReadFile(envPath)
	switch {
	case os.IsNotExist(err):
		res.Warnings = append(res.Warnings, config.DotEnvFile+" not found; set "+branding.EnvVar("env")+"="+frontend+" yourself")
		s.logger.Warn("dotenv file not found", "file", config.DotEnvFile)
	case err != nil:
		return res, fmt.Errorf("reading %s: %w", config.DotEnvFile, err)
	default:
		updated := SetEnvValue(string(data), branding.EnvVar("env"), frontend)
		if updated != string(data) {
			if err := os.WriteFile(envPath, []byte(updated), fileMode(envPath)); err != nil {
				return res, fmt.Errorf("writing %s: %w", config.DotEnvFile, err)
			}
			res.EnvChanged = true
			s.logger.Info("dotenv updated", "key", branding.EnvVar("env"), "value", frontend)
		}
	}
	return res, nil
}

func (s *Scaffolder) rewriteViews(entry string, res *Result) ([]string, error) {
	dir := s.root.Path(ViewsDir)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		res.Warnings = append(res.Warnings, ViewsDir+" not found; no Blade templates updated")
		s.logger.Warn("views directory not found", "dir", ViewsDir)
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), BladeGlob)
	if err != nil {
		return nil, fmt.Errorf("listing Blade templates: %w", err)
	}
	sort.Strings(matches)

	var rewritten []string
	for _, m := range matches {
		full := filepath.Join(dir, filepath.FromSlash(m))
		data, err := os.ReadFile(full)
		if err != nil {
			return rewritten, fmt.Errorf("reading %s: %w", m, err)
		}
		out, changed := RewriteDirectives(string(data), entry)
		if !changed {
			continue
		}
		if err := os.WriteFile(full, []byte(out), fileMode(full)); err != nil {
			return rewritten, fmt.Errorf("writing %s: %w", m, err)
		}
		rel := path.Join(ViewsDir, m)
		rewritten = append(rewritten, rel)
		s.logger.Info("@vite directive updated", "file", rel)
	}
	return rewritten, nil
}

// RewriteDirectives replaces every @vite([...]) call in a Blade template
// with one naming only entry.
func RewriteDirectives(content, entry string) (string, bool) {
	out := viteDirective.ReplaceAllLiteralString(content, "@vite(['"+entry+"'])")
	return out, out != content
}

// SetEnvValue sets key=value in dotenv content. The first existing
// assignment is replaced in place and any duplicates are dropped; a new key
// is appended after a blank line.
func SetEnvValue(content, key, value string) string {
	line := key + "=" + value
	lines := strings.Split(content, "\n")

	found := false
	out := lines[:0]
	for _, l := range lines {
		if isAssignment(l, key) {
			if found {
				continue
			}
			found = true
			out = append(out, line)
			continue
		}
		out = append(out, l)
	}
	if found {
		return strings.Join(out, "\n")
	}

	trimmed := strings.TrimRight(content, " \t\r\n")
	if trimmed == "" {
		return line + "\n"
	}
	return trimmed + "\n\n" + line + "\n"
}

func isAssignment(line, key string) bool {
	l := strings.TrimSpace(line)
	l = strings.TrimPrefix(l, "export ")
	k, _, ok := strings.Cut(l, "=")
	return ok && strings.TrimSpace(k) == key
}

// writeIfChanged writes content to path unless it already holds it.
func writeIfChanged(path string, content []byte) (bool, error) {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, content) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, fileMode(path)); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// fileMode keeps an existing file's permissions.
func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
