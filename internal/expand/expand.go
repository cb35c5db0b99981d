package expand

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/substitute"
)

// excludedNames are never copied out of a template tree.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// Swap replaces one generated page file with an alternate pre-built one.
type Swap struct {
	Source  string // path inside the template FS
	Target  string // file name written into the module's page directory
	Replace string // file name removed from the page directory
}

// Options tunes an expansion.
type Options struct {
	ContentGlobs []string // see substitute.Options
	Swap         *Swap    // optional front-end variant
}

// Result holds the outcome of an expansion.
type Result struct {
	OutputDir    string
	Files        []string // copied files, relative to the template root
	Substitution *substitute.Result
	Seeders      []string // seeders whose namespace was rewritten
	Warnings     []string
}

// Expand copies templateRoot from src into dest and substitutes name into
// the copy. It refuses to touch an existing dest.
func Expand(src fs.FS, templateRoot, dest string, name module.Name, opts Options) (*Result, error) {
	if _, err := os.Lstat(dest); err == nil {
		return nil, &module.AlreadyExistsError{Kind: "module", Path: dest}
	}

	info, err := fs.Stat(src, templateRoot)
	if err != nil || !info.IsDir() {
		return nil, &module.NotFoundError{Kind: "template", Path: templateRoot}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}

	result := &Result{OutputDir: dest}

	files, err := copyTree(src, templateRoot, dest)
	if err != nil {
		return nil, fmt.Errorf("copying template to %s: %w", dest, err)
	}
	result.Files = files

	sub, err := substitute.Apply(dest, name, substitute.Options{ContentGlobs: opts.ContentGlobs})
	if err != nil {
		return result, fmt.Errorf("substituting placeholders: %w", err)
	}
	result.Substitution = sub
	for _, s := range sub.Skipped {
		result.Warnings = append(result.Warnings, "rename skipped, destination exists: "+s)
	}

	tree := module.Tree{Root: dest, Name: name}
	seeders, err := substitute.RewriteSeederNamespace(tree.Path(module.SeedersDir), name)
	if err != nil {
		return result, fmt.Errorf("rewriting seeder namespace: %w", err)
	}
	result.Seeders = seeders

	if opts.Swap != nil {
		warning, err := applySwap(src, tree, *opts.Swap)
		if err != nil {
			return result, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
	}

	return result, nil
}

// applySwap writes the alternate page and deletes the one it replaces. A
// missing source is reported as a warning and leaves the tree untouched.
func applySwap(src fs.FS, tree module.Tree, swap Swap) (string, error) {
	data, err := fs.ReadFile(src, swap.Source)
	if err != nil {
		return fmt.Sprintf("variant file %s not found, keeping %s", swap.Source, swap.Replace), nil
	}

	pageDir := tree.PageDir()
	if err := os.MkdirAll(pageDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", pageDir, err)
	}

	data = []byte(substitute.Replacer(tree.Name).Replace(string(data)))
	if err := os.WriteFile(filepath.Join(pageDir, swap.Target), data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", swap.Target, err)
	}

	old := filepath.Join(pageDir, swap.Replace)
	if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing %s: %w", old, err)
	}
	return "", nil
}

// copyTree recursively copies root from src to dst, excluding entries in
// excludedNames. Symlinks and other special files are skipped.
func copyTree(src fs.FS, root, dst string) ([]string, error) {
	var files []string

	err := fs.WalkDir(src, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if shouldExclude(d.Name()) && p != root {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel := p
		if root != "." {
			rel = strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		}
		target := filepath.Join(dst, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, fileMode(info.Mode())); err != nil {
			return err
		}
		files = append(files, path.Clean(rel))
		return nil
	})

	return files, err
}

// fileMode keeps the executable bit and makes copies writable; embedded
// files report read-only modes.
func fileMode(m fs.FileMode) fs.FileMode {
	if m&0o111 != 0 {
		return 0o755
	}
	return 0o644
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}
