package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/hotswap-labs/hotswap/internal/artisan"
	"github.com/hotswap-labs/hotswap/internal/expand"
	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/project"
	"github.com/hotswap-labs/hotswap/internal/registry"
)

// Options configures a Controller.
type Options struct {
	Layout       module.Layout
	Template     fs.FS
	TemplateRoot string
	ContentGlobs []string
	Variant      *expand.Swap // optional front-end page swap on create

	// Autoloader regenerates the autoload map after create. Nil skips it.
	Autoloader artisan.Autoloader
	Logger     *log.Logger
}

// Controller runs lifecycle operations against one project.
type Controller struct {
	root    project.Root
	opts    Options
	mutator *registry.Mutator
	logger  *log.Logger
}

// New returns a Controller for root.
func New(root project.Root, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	if opts.Layout.PackagesDir == "" {
		opts.Layout = module.NewLayout("")
	}
	return &Controller{
		root:    root,
		opts:    opts,
		mutator: registry.NewMutator(root.Dir(), logger),
		logger:  logger,
	}
}

func (c *Controller) tree(n module.Name) module.Tree {
	return module.NewTree(c.root.Dir(), c.opts.Layout, n)
}

func (c *Controller) newReport(action string, n module.Name) *Report {
	return &Report{Action: action, Module: n, Path: c.opts.Layout.Dir(n)}
}

// Create expands the template for raw and registers the module everywhere.
// An existing tree or a missing template stops it before anything is
// written. Once the tree exists the operation succeeds: a registry that
// cannot be updated is recorded as a failed step in the report, and
// nothing is rolled back.
func (c *Controller) Create(ctx context.Context, raw string) (*Report, error) {
	n, err := module.Parse(raw)
	if err != nil {
		return nil, err
	}
	rep := c.newReport("create", n)
	tree := c.tree(n)

	res, err := expand.Expand(c.opts.Template, c.opts.TemplateRoot, tree.Root, n, expand.Options{
		ContentGlobs: c.opts.ContentGlobs,
		Swap:         c.opts.Variant,
	})
	if err != nil {
		return rep, err
	}
	rep.add(Step{Target: "tree", File: rep.Path, Outcome: OutcomeCreated, Warnings: res.Warnings})
	for _, w := range res.Warnings {
		c.logger.Warn(w, "module", n.Slug)
	}
	c.logger.Info("module tree created", "module", n.Slug, "path", rep.Path, "files", len(res.Files))

	for _, r := range registry.All(c.opts.Layout) {
		step, err := c.mutator.Add(r, n)
		if err != nil {
			c.logger.Error("registry update failed", "registry", r.Name(), "err", err)
			step.Outcome = OutcomeFailed
			step.Warnings = append(step.Warnings, fmt.Sprintf("%s: %v", r.Name(), err))
		}
		rep.addRegistry(step)
	}

	rep.add(c.dumpAutoload(ctx))
	return rep, nil
}

// dumpAutoload regenerates the autoload map. Failure is only a warning.
func (c *Controller) dumpAutoload(ctx context.Context) Step {
	step := Step{Target: "autoload"}
	if c.opts.Autoloader == nil {
		step.Outcome = OutcomeDisabled
		return step
	}
	if err := c.opts.Autoloader.DumpAutoload(ctx); err != nil {
		c.logger.Warn("autoload regeneration failed; run `composer dump-autoload` manually", "err", err)
		step.Outcome = OutcomeFailed
		step.Warnings = []string{"composer dump-autoload failed: " + err.Error()}
		return step
	}
	step.Outcome = OutcomeRegenerated
	return step
}

// Pause comments out the module's provider so the framework stops loading
// it. The tree and other registries are untouched.
func (c *Controller) Pause(raw string) (*Report, error) {
	return c.toggle(raw, true)
}

// Resume restores a paused module's provider.
func (c *Controller) Resume(raw string) (*Report, error) {
	return c.toggle(raw, false)
}

func (c *Controller) toggle(raw string, pause bool) (*Report, error) {
	n, err := module.Parse(raw)
	if err != nil {
		return nil, err
	}
	action, done, already := "resume", OutcomeResumed, OutcomeWasActive
	if pause {
		action, done, already = "pause", OutcomePaused, OutcomeWasPaused
	}
	rep := c.newReport(action, n)

	step, err := c.mutator.Toggle(n, pause)
	if err != nil {
		return rep, err
	}
	outcome := already
	if step.Outcome == registry.OutcomeChanged {
		outcome = done
	}
	rep.add(Step{Target: step.Registry, File: step.File, Outcome: outcome, Warnings: step.Warnings})
	c.logger.Info("module "+outcome, "module", n.Slug)
	return rep, nil
}

// Remove deletes the module tree and its entry from every registry,
// whether the module is active or paused. Both halves always run: a
// missing tree is a warning, and registry failures are collected and
// returned together. The autoload map is regenerated when composer.json
// lost entries.
func (c *Controller) Remove(ctx context.Context, raw string) (*Report, error) {
	n, err := module.Parse(raw)
	if err != nil {
		return nil, err
	}
	rep := c.newReport("remove", n)
	tree := c.tree(n)

	var errs []error
	treeStep := Step{Target: "tree", File: rep.Path}
	switch _, statErr := os.Lstat(tree.Root); {
	case os.IsNotExist(statErr):
		treeStep.Outcome = OutcomeMissing
		treeStep.Warnings = []string{"module directory " + rep.Path + " does not exist"}
		c.logger.Warn("module directory not found", "module", n.Slug, "path", rep.Path)
	case statErr != nil:
		treeStep.Outcome = OutcomeFailed
		errs = append(errs, fmt.Errorf("tree: %w", statErr))
	default:
		if err := os.RemoveAll(tree.Root); err != nil {
			treeStep.Outcome = OutcomeFailed
			errs = append(errs, fmt.Errorf("deleting %s: %w", rep.Path, err))
		} else {
			treeStep.Outcome = OutcomeDeleted
			c.logger.Info("module tree deleted", "module", n.Slug, "path", rep.Path)
		}
	}
	rep.add(treeStep)

	manifestChanged := false
	for _, r := range registry.All(c.opts.Layout) {
		step, err := c.mutator.Remove(r, n)
		if err != nil {
			c.logger.Error("registry update failed", "registry", r.Name(), "err", err)
			step.Outcome = OutcomeFailed
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
		if r.File() == registry.ComposerFile && step.Outcome == registry.OutcomeRemoved {
			manifestChanged = true
		}
		rep.addRegistry(step)
	}
	if manifestChanged {
		rep.add(c.dumpAutoload(ctx))
	}
	return rep, errors.Join(errs...)
}

// Status is a module's observable state.
type Status struct {
	Name     module.Name
	Path     string // project-relative module directory
	Tree     bool
	Provider registry.ProviderState
}

// State names the lifecycle state derived from tree and provider.
func (s Status) State() string {
	switch {
	case s.Tree && s.Provider == registry.ProviderActive:
		return "active"
	case s.Tree && s.Provider == registry.ProviderPaused:
		return "paused"
	case s.Tree:
		return "unregistered"
	case s.Provider != registry.ProviderAbsent:
		return "orphaned"
	default:
		return "absent"
	}
}

// Status reports the state of one module.
func (c *Controller) Status(raw string) (Status, error) {
	n, err := module.Parse(raw)
	if err != nil {
		return Status{}, err
	}
	providers, err := c.readProviders()
	if err != nil {
		return Status{}, err
	}
	return c.status(n, providers), nil
}

func (c *Controller) status(n module.Name, providers []byte) Status {
	st := Status{Name: n, Path: c.opts.Layout.Dir(n)}
	if info, err := os.Stat(c.tree(n).Root); err == nil && info.IsDir() {
		st.Tree = true
	}
	if providers != nil {
		st.Provider = registry.Providers{}.State(providers, n)
	}
	return st
}

// readProviders returns the provider list, or nil when the file is absent.
func (c *Controller) readProviders() ([]byte, error) {
	data, err := os.ReadFile(c.root.Path(registry.ProvidersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", registry.ProvidersFile, err)
	}
	return data, nil
}

// List reports every module directory under the packages directory,
// sorted by slug. Directories that are not valid module names are skipped.
func (c *Controller) List() ([]Status, error) {
	dir := c.root.Path(c.opts.Layout.PackagesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	providers, err := c.readProviders()
	if err != nil {
		return nil, err
	}

	var out []Status
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := module.Parse(e.Name())
		if err != nil || n.Slug != e.Name() {
			c.logger.Debug("skipping directory", "path", filepath.Join(dir, e.Name()))
			continue
		}
		out = append(out, c.status(n, providers))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name.Slug < out[j].Name.Slug })
	return out, nil
}
