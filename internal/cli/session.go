package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/artisan"
	"github.com/hotswap-labs/hotswap/internal/branding"
	"github.com/hotswap-labs/hotswap/internal/config"
	"github.com/hotswap-labs/hotswap/internal/expand"
	"github.com/hotswap-labs/hotswap/internal/lifecycle"
	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/project"
	"github.com/hotswap-labs/hotswap/internal/scaffold"
)

// session is the per-invocation state shared by commands: the project,
// its settings and the step logger.
type session struct {
	root     project.Root
	store    *config.Store
	settings config.Settings
	logger   *log.Logger
}

func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: branding.CLIName()})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
	return logger
}

// openSession resolves the project and loads its settings.
func openSession(cmd *cobra.Command) (*session, error) {
	root, err := project.Resolve(flagProjectDir)
	if err != nil {
		return nil, err
	}
	store, err := config.Load(root.Dir())
	if err != nil {
		return nil, err
	}
	settings, err := store.Settings()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr())
	logger.Debug("project resolved", "dir", root.Dir(), "packages_dir", settings.PackagesDir)
	return &session{root: root, store: store, settings: settings, logger: logger}, nil
}

// template returns the module template: the configured directory when one
// is set, the embedded template otherwise.
func (s *session) template() (fs.FS, string, error) {
	dir := s.settings.TemplateDir
	if dir == "" {
		return scaffold.TemplateFS(), scaffold.ModuleTemplateRoot, nil
	}
	if !filepath.IsAbs(dir) {
		dir = s.root.Path(dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, "", &module.NotFoundError{Kind: "template", Path: dir}
	}
	return os.DirFS(dir), ".", nil
}

// variant maps a front-end choice to the page swap applied on create.
func variant(frontend string) (*expand.Swap, error) {
	switch frontend {
	case "", scaffold.FrontendReact:
		return nil, nil
	}
	v, ok := scaffold.LookupVariant(frontend)
	if !ok {
		return nil, fmt.Errorf("unknown variant %q: must be react or vue", frontend)
	}
	return &expand.Swap{Source: v.Source, Target: v.Target, Replace: v.Replace}, nil
}

func (s *session) runner(cmd *cobra.Command) *artisan.Runner {
	r := &artisan.Runner{
		Dir:      s.root.Dir(),
		PHP:      s.settings.PHPBin,
		Composer: s.settings.ComposerBin,
		Logger:   s.logger,
	}
	if flagVerbose {
		r.Stdout = cmd.ErrOrStderr()
		r.Stderr = cmd.ErrOrStderr()
	}
	return r
}

// controller builds a lifecycle controller for operations that do not
// expand the template.
func (s *session) controller(cmd *cobra.Command) *lifecycle.Controller {
	return lifecycle.New(s.root, s.lifecycleOptions(cmd))
}

// creator builds a lifecycle controller that can create modules. frontend
// overrides the configured front-end for this run.
func (s *session) creator(cmd *cobra.Command, frontend string) (*lifecycle.Controller, error) {
	opts := s.lifecycleOptions(cmd)

	tmpl, root, err := s.template()
	if err != nil {
		return nil, err
	}
	opts.Template, opts.TemplateRoot = tmpl, root

	if frontend == "" {
		frontend = s.settings.Frontend
	}
	if opts.Variant, err = variant(frontend); err != nil {
		return nil, err
	}
	return lifecycle.New(s.root, opts), nil
}

func (s *session) lifecycleOptions(cmd *cobra.Command) lifecycle.Options {
	opts := lifecycle.Options{
		Layout:       s.settings.Layout(),
		ContentGlobs: s.settings.ContentGlobs,
		Logger:       s.logger,
	}
	if s.settings.DumpAutoload {
		opts.Autoloader = s.runner(cmd)
	}
	return opts
}

func (s *session) workspace(cmd *cobra.Command) artisan.Workspace {
	return artisan.Workspace{
		ProjectDir: s.root.Dir(),
		Layout:     s.settings.Layout(),
		Gen:        s.runner(cmd),
	}
}

// moduleTree returns the tree of an existing module.
func (s *session) moduleTree(raw string) (module.Tree, error) {
	n, err := module.Parse(raw)
	if err != nil {
		return module.Tree{}, err
	}
	layout := s.settings.Layout()
	tree := module.NewTree(s.root.Dir(), layout, n)
	if info, err := os.Stat(tree.Root); err != nil || !info.IsDir() {
		return tree, &module.NotFoundError{Kind: "module", Path: layout.Dir(n)}
	}
	return tree, nil
}

// rel shortens an absolute path inside the project for display.
func (s *session) rel(path string) string {
	if r, err := filepath.Rel(s.root.Dir(), path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}
