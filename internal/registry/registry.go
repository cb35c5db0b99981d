package registry

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// Registry is one shared file holding at most one entry per module.
type Registry interface {
	// Name is a short label used in logs and reports.
	Name() string
	// File is the project-relative, slash-separated path of the registry.
	File() string
	// Add returns content with the module's entry present.
	Add(content []byte, n module.Name) (Edit, error)
	// Remove returns content with the module's entry absent.
	Remove(content []byte, n module.Name) (Edit, error)
}

// Edit is the output of a transform. Warnings describe parts of the edit
// that could not be applied (for example a missing anchor block).
type Edit struct {
	Content  []byte
	Warnings []string
}

// AnchorError reports that the structure a registry edits was not found in
// the file. Mutators treat it like a missing file: warn and skip.
type AnchorError struct {
	File   string
	Anchor string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("%s: could not find %s", e.File, e.Anchor)
}

// Outcome summarizes what a registry step did.
type Outcome string

// Registry step outcomes.
const (
	OutcomeAdded     Outcome = "added"
	OutcomePresent   Outcome = "already present"
	OutcomeRemoved   Outcome = "removed"
	OutcomeAbsent    Outcome = "not present"
	OutcomeChanged   Outcome = "changed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped"
)

// Step records one registry operation.
type Step struct {
	Registry string
	File     string
	Outcome  Outcome
	Warnings []string
}

// Mutator applies registry transforms to files under a project root.
type Mutator struct {
	root   string
	logger *log.Logger
}

// NewMutator returns a Mutator rooted at projectRoot.
func NewMutator(projectRoot string, logger *log.Logger) *Mutator {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Mutator{root: projectRoot, logger: logger}
}

// Add ensures r holds the entry for n. A missing file or anchor is logged
// and reported as skipped, never returned as an error.
func (m *Mutator) Add(r Registry, n module.Name) (Step, error) {
	return m.bestEffort(r, n, r.Add, OutcomeAdded, OutcomePresent)
}

// Remove ensures r holds no entry for n, with the same soft failures as Add.
func (m *Mutator) Remove(r Registry, n module.Name) (Step, error) {
	return m.bestEffort(r, n, r.Remove, OutcomeRemoved, OutcomeAbsent)
}

func (m *Mutator) bestEffort(r Registry, n module.Name, fn func([]byte, module.Name) (Edit, error), changed, unchanged Outcome) (Step, error) {
	step, err := m.Apply(r.Name(), r.File(), func(content []byte) (Edit, error) {
		return fn(content, n)
	})

	var notFound *module.NotFoundError
	var anchor *AnchorError
	switch {
	case errors.As(err, &notFound):
		m.logger.Warn("registry file not found, skipping", "registry", r.Name(), "file", r.File())
		step.Outcome = OutcomeSkipped
		return step, nil
	case errors.As(err, &anchor):
		m.logger.Warn("registry anchor not found, skipping", "registry", r.Name(), "file", r.File(), "anchor", anchor.Anchor)
		step.Outcome = OutcomeSkipped
		step.Warnings = append(step.Warnings, anchor.Error())
		return step, nil
	case err != nil:
		return step, err
	}

	if step.Outcome == OutcomeChanged {
		step.Outcome = changed
	} else {
		step.Outcome = unchanged
	}
	m.logger.Debug("registry updated", "registry", r.Name(), "module", n.Slug, "outcome", string(step.Outcome))
	return step, nil
}

// Apply reads file, runs fn over it and writes the result back when it
// differs. A missing file yields a *module.NotFoundError.
func (m *Mutator) Apply(name, file string, fn func([]byte) (Edit, error)) (Step, error) {
	step := Step{Registry: name, File: file}
	path := filepath.Join(m.root, filepath.FromSlash(file))

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return step, &module.NotFoundError{Kind: name + " registry", Path: file}
		}
		return step, fmt.Errorf("reading %s: %w", file, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return step, fmt.Errorf("reading %s: %w", file, err)
	}

	edit, err := fn(content)
	if err != nil {
		return step, err
	}
	step.Warnings = append(step.Warnings, edit.Warnings...)
	for _, w := range edit.Warnings {
		m.logger.Warn(w, "registry", name, "file", file)
	}

	if bytes.Equal(edit.Content, content) {
		step.Outcome = OutcomeUnchanged
		return step, nil
	}

	if err := os.WriteFile(path, edit.Content, info.Mode().Perm()); err != nil {
		return step, fmt.Errorf("writing %s: %w", file, err)
	}
	step.Outcome = OutcomeChanged
	return step, nil
}

// All returns the host registries in the order the lifecycle applies them.
func All(layout module.Layout) []Registry {
	return []Registry{
		Providers{},
		Composer{Layout: layout},
		Vite{Layout: layout},
		Seeder{},
	}
}
