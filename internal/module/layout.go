package module

import (
	"path"
	"path/filepath"
)

// DefaultPackagesDir is where modules live relative to the project root.
const DefaultPackagesDir = "packages"

// Layout maps a module onto project-relative, slash-separated paths. The
// registries store these strings verbatim, so they never use the OS separator.
type Layout struct {
	PackagesDir string
}

// NewLayout returns a Layout, falling back to DefaultPackagesDir.
func NewLayout(packagesDir string) Layout {
	if packagesDir == "" {
		packagesDir = DefaultPackagesDir
	}
	return Layout{PackagesDir: filepath.ToSlash(packagesDir)}
}

// Dir returns e.g. "packages/ecommerce".
func (l Layout) Dir(n Name) string { return path.Join(l.PackagesDir, n.Slug) }

// Rel joins elem under the module directory, e.g. Rel(n, "src", "App").
func (l Layout) Rel(n Name, elem ...string) string {
	return path.Join(append([]string{l.Dir(n)}, elem...)...)
}

// Conventional directories inside a generated module, relative to its root.
const (
	SrcDir         = "src"
	AppDir         = "src/App"
	ControllersDir = "src/App/Http/Controllers"
	ModelsDir      = "src/App/Models"
	ProvidersDir   = "src/App/Providers"
	MigrationsDir  = "src/databases/migrations"
	SeedersDir     = "src/databases/seeders"
	FactoriesDir   = "src/databases/factories"
	JSDir          = "src/resources/js"
	PagesDir       = "src/resources/js/pages"
)

// Tree is the on-disk location of one module's generated tree.
type Tree struct {
	Root string
	Name Name
}

// NewTree places the module under projectRoot using layout.
func NewTree(projectRoot string, layout Layout, n Name) Tree {
	return Tree{Root: filepath.Join(projectRoot, filepath.FromSlash(layout.Dir(n))), Name: n}
}

// Path joins a slash-separated module-relative path onto the tree root.
func (t Tree) Path(rel string, elem ...string) string {
	parts := append([]string{t.Root, filepath.FromSlash(rel)}, elem...)
	return filepath.Join(parts...)
}

// PageDir returns src/resources/js/pages/<slug>.
func (t Tree) PageDir() string { return t.Path(PagesDir, t.Name.Slug) }
