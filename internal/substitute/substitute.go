package substitute

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// DefaultContentGlobs selects the files whose contents carry placeholders.
var DefaultContentGlobs = []string{
	"**/*.php",
	"**/*.ts",
	"**/*.tsx",
	"**/*.js",
	"**/*.jsx",
	"**/*.vue",
	"**/*.json",
}

// Options controls which files get content substitution.
type Options struct {
	ContentGlobs []string // doublestar patterns relative to the root; nil means DefaultContentGlobs
}

// Result lists what changed, relative to the root, slash-separated.
type Result struct {
	Rewritten []string // files whose contents changed
	Renamed   []string // "old -> new" for files and directories
	Skipped   []string // renames skipped because the destination exists
}

// Replacer returns the token replacer for name.
func Replacer(name module.Name) *strings.Replacer {
	return strings.NewReplacer(
		module.PlaceholderIdentifier, name.Identifier,
		module.PlaceholderSlug, name.Slug,
	)
}

// Apply substitutes the placeholder pair under root.
func Apply(root string, name module.Name, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &module.NotFoundError{Kind: "substitution root", Path: root}
	}

	globs := opts.ContentGlobs
	if globs == nil {
		globs = DefaultContentGlobs
	}
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid content glob %q", g)
		}
	}

	r := Replacer(name)
	result := &Result{}

	if err := rewriteContents(root, globs, r, result); err != nil {
		return nil, err
	}
	if err := renameFiles(root, r, result); err != nil {
		return nil, err
	}
	if err := renameDirsDeepestFirst(root, r, result); err != nil {
		return nil, err
	}

	return result, nil
}

func rewriteContents(root string, globs []string, r *strings.Replacer, result *Result) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel := relSlash(root, path)
		if !matchAny(globs, rel) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		replaced := r.Replace(string(data))
		if replaced == string(data) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(replaced), info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		result.Rewritten = append(result.Rewritten, rel)
		return nil
	})
}

func renameFiles(root string, r *strings.Replacer, result *Result) error {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range files {
		renameEntry(root, path, r, result)
	}
	return nil
}

// renameDirsDeepestFirst renames directories longest path first. Renaming a
// parent before its children would invalidate the children's paths.
func renameDirsDeepestFirst(root string, r *strings.Replacer, result *Result) error {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.SliceStable(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	for _, path := range dirs {
		renameEntry(root, path, r, result)
	}
	return nil
}

func renameEntry(root, path string, r *strings.Replacer, result *Result) {
	base := filepath.Base(path)
	newBase := r.Replace(base)
	if newBase == base {
		return
	}

	newPath := filepath.Join(filepath.Dir(path), newBase)
	move := relSlash(root, path) + " -> " + relSlash(root, newPath)
	if _, err := os.Lstat(newPath); err == nil {
		result.Skipped = append(result.Skipped, move)
		return
	}
	if err := os.Rename(path, newPath); err != nil {
		result.Skipped = append(result.Skipped, move)
		return
	}
	result.Renamed = append(result.Renamed, move)
}

var seederNamespace = regexp.MustCompile(`(?m)^namespace\s+Database\\Seeders\s*;`)

// RewriteSeederNamespace points seeders copied from a host-style stub at the
// module's own Seeders namespace. It returns the files it changed; a missing
// directory is not an error.
func RewriteSeederNamespace(seedersDir string, name module.Name) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(seedersDir, "*.php"))
	if err != nil {
		return nil, err
	}

	replacement := "namespace " + name.Identifier + `\Seeders;`
	var changed []string
	for _, file := range matches {
		data, err := os.ReadFile(file)
		if err != nil {
			return changed, fmt.Errorf("reading %s: %w", file, err)
		}
		out := seederNamespace.ReplaceAllLiteral(data, []byte(replacement))
		if string(out) == string(data) {
			continue
		}
		if err := os.WriteFile(file, out, 0o644); err != nil {
			return changed, fmt.Errorf("writing %s: %w", file, err)
		}
		changed = append(changed, filepath.Base(file))
	}
	return changed, nil
}

func matchAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
