package doctor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/hotswap-labs/hotswap/internal/branding"
	"github.com/hotswap-labs/hotswap/internal/config"
	"github.com/hotswap-labs/hotswap/internal/lifecycle"
	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/project"
	"github.com/hotswap-labs/hotswap/internal/registry"
)

// Options configures a diagnosis.
type Options struct {
	Layout      module.Layout
	PHPBin      string
	ComposerBin string

	// LookPath finds tools; nil means exec.LookPath.
	LookPath func(string) (string, error)
	Logger   *log.Logger
}

// Summary counts the findings of a run.
type Summary struct {
	OK, Warn, Miss, Fail int
}

// Healthy reports whether nothing is missing or failing. Warnings are
// tolerated.
func (s Summary) Healthy() bool { return s.Miss == 0 && s.Fail == 0 }

type checker struct {
	w   io.Writer
	sum Summary
}

func (c *checker) section(title string) { fmt.Fprintf(c.w, "%s:\n", title) }

func (c *checker) ok(format string, args ...any) {
	c.sum.OK++
	fmt.Fprintf(c.w, "  [ OK ] "+format+"\n", args...)
}

func (c *checker) warn(format string, args ...any) {
	c.sum.Warn++
	fmt.Fprintf(c.w, "  [WARN] "+format+"\n", args...)
}

func (c *checker) miss(format string, args ...any) {
	c.sum.Miss++
	fmt.Fprintf(c.w, "  [MISS] "+format+"\n", args...)
}

func (c *checker) fail(format string, args ...any) {
	c.sum.Fail++
	fmt.Fprintf(c.w, "  [FAIL] "+format+"\n", args...)
}

func (c *checker) hint(format string, args ...any) {
	fmt.Fprintf(c.w, "         "+format+"\n", args...)
}

// Run checks the project at root and writes one line per finding to w.
func Run(w io.Writer, root project.Root, opts Options) Summary {
	if opts.Layout.PackagesDir == "" {
		opts.Layout = module.NewLayout("")
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	c := &checker{w: w}

	checkProject(c, root)
	checkRegistries(c, root, opts.Layout)
	checkFramework(c, root)
	checkTools(c, opts)
	checkModules(c, root, opts)
	return c.sum
}

func checkProject(c *checker, root project.Root) {
	c.section("Project check")
	c.ok("project root %s", root.Dir())
	for _, marker := range project.Markers {
		if root.Exists(marker) {
			c.ok("%s exists", marker)
		} else {
			c.miss("%s does not exist", marker)
		}
	}

	settings := config.FilePath(root.Dir())
	data, err := os.ReadFile(settings)
	switch {
	case os.IsNotExist(err):
		c.ok("no settings file, using defaults")
	case err != nil:
		c.fail("%s: %v", settings, err)
	default:
		issues, err := config.Validate(data)
		if err != nil {
			c.fail("%s: %v", settings, err)
			break
		}
		if len(issues) == 0 {
			c.ok("%s is valid", settings)
			break
		}
		c.fail("%s has %d validation issue(s)", settings, len(issues))
		for _, is := range issues {
			if is.Path != "" {
				c.hint("- %s: %s", is.Path, is.Message)
			} else {
				c.hint("- %s", is.Message)
			}
		}
	}
}

// probe is the module name used to dry-run registry edits.
var probe = module.Name{Slug: "hotswapdoctor", Identifier: "Hotswapdoctor"}

func checkRegistries(c *checker, root project.Root, layout module.Layout) {
	c.section("Registry check")
	for _, r := range registry.All(layout) {
		content, err := os.ReadFile(root.Path(r.File()))
		if os.IsNotExist(err) {
			c.miss("%s does not exist", r.File())
			c.hint("modules will not be registered in it")
			continue
		}
		if err != nil {
			c.fail("%s: %v", r.File(), err)
			continue
		}

		// A dry-run add shows whether the anchors are still recognizable.
		edit, err := r.Add(content, probe)
		var anchor *registry.AnchorError
		switch {
		case errors.As(err, &anchor):
			c.warn("%s: cannot find %s", r.File(), anchor.Anchor)
			c.hint("entries will be skipped until the file is fixed by hand")
		case err != nil:
			c.fail("%s: %v", r.File(), err)
		case len(edit.Warnings) > 0:
			for _, msg := range edit.Warnings {
				c.warn("%s: %s", r.File(), msg)
			}
		default:
			c.ok("%s is editable", r.File())
		}
	}
}

func checkFramework(c *checker, root project.Root) {
	c.section("Framework check")
	content, err := os.ReadFile(root.Path(registry.ComposerFile))
	if err != nil {
		c.warn("cannot read %s, skipping version check", registry.ComposerFile)
		return
	}

	constraint, err := registry.FrameworkConstraint(content, FrameworkPackage)
	switch {
	case err != nil:
		c.fail("%v", err)
	case constraint == "":
		c.miss("%s is not required in %s", FrameworkPackage, registry.ComposerFile)
	default:
		supported, older, err := ConstraintSupport(constraint)
		switch {
		case err != nil:
			c.warn("%s %q: %v", FrameworkPackage, constraint, err)
		case !supported:
			c.fail("%s %q is older than %d", FrameworkPackage, constraint, MinFrameworkMajor)
			c.hint("modules are registered in %s, which needs %d or newer", registry.ProvidersFile, MinFrameworkMajor)
		case older:
			c.warn("%s %q also allows versions older than %d", FrameworkPackage, constraint, MinFrameworkMajor)
		default:
			c.ok("%s %q", FrameworkPackage, constraint)
		}
	}

	installed, err := InstalledVersion(root.Path("composer.lock"), FrameworkPackage)
	switch {
	case err != nil:
		c.warn("composer.lock: %v", err)
	case installed == "":
		c.warn("%s is not locked; run composer install", FrameworkPackage)
	default:
		ok, err := VersionSupported(installed)
		switch {
		case err != nil:
			c.warn("installed %s: %v", FrameworkPackage, err)
		case ok:
			c.ok("installed %s %s", FrameworkPackage, installed)
		default:
			c.fail("installed %s %s is older than %d", FrameworkPackage, installed, MinFrameworkMajor)
		}
	}
}

func checkTools(c *checker, opts Options) {
	c.section("Tools check")
	tools := []struct{ bin, use string }{
		{opts.PHPBin, "model, controller and migration generation"},
		{opts.ComposerBin, "autoload regeneration"},
	}
	for _, t := range tools {
		if t.bin == "" {
			continue
		}
		path, err := opts.LookPath(t.bin)
		if err != nil {
			c.warn("%s not found (needed for %s)", t.bin, t.use)
			continue
		}
		c.ok("%s found at %s", t.bin, path)
	}
}

func checkModules(c *checker, root project.Root, opts Options) {
	c.section("Modules check")
	layout := opts.Layout
	ctl := lifecycle.New(root, lifecycle.Options{Layout: layout, Logger: opts.Logger})
	mods, err := ctl.List()
	if err != nil {
		c.fail("listing modules: %v", err)
		return
	}
	if len(mods) == 0 {
		c.ok("no modules under %s", layout.PackagesDir)
		return
	}
	for _, m := range mods {
		switch m.State() {
		case "active":
			c.ok("%s is active", m.Name.Slug)
		case "paused":
			c.ok("%s is paused", m.Name.Slug)
		default:
			c.warn("%s has a tree but no provider entry", m.Name.Slug)
			c.hint("run `%s remove %s` and create it again, or restore the entry by hand", branding.CLIName(), m.Name.Slug)
		}
	}
}
