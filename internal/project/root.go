package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hotswap-labs/hotswap/internal/branding"
)

// Markers are the files whose presence identifies a project root.
var Markers = []string{"artisan", "composer.json"}

// ErrNoProject is returned when no project root can be located.
var ErrNoProject = errors.New("no Laravel project found")

// Root is the base path of the host application.
type Root struct {
	dir string
}

// New returns a Root for dir, which must be an existing directory.
func New(dir string) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Root{}, fmt.Errorf("resolving project directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Root{}, fmt.Errorf("project directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return Root{}, fmt.Errorf("project directory %s is not a directory", abs)
	}
	return Root{dir: abs}, nil
}

// Resolve picks the project root. An explicit directory (the --project-dir
// flag) wins, then the HOTSWAP_PROJECT_DIR environment variable, then the
// nearest ancestor of the working directory holding one of the Markers.
func Resolve(explicit string) (Root, error) {
	if explicit != "" {
		return New(explicit)
	}
	if v := os.Getenv(branding.EnvVar("PROJECT_DIR")); v != "" {
		return New(v)
	}
	wd, err := os.Getwd()
	if err != nil {
		return Root{}, fmt.Errorf("resolving working directory: %w", err)
	}
	dir, err := Find(wd)
	if err != nil {
		return Root{}, err
	}
	return Root{dir: dir}, nil
}

// Find walks up from start to the first directory containing a marker file.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		if hasMarker(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in %s or any parent directory (pass --project-dir or set %s)",
				ErrNoProject, start, branding.EnvVar("PROJECT_DIR"))
		}
		dir = parent
	}
}

func hasMarker(dir string) bool {
	for _, m := range Markers {
		if info, err := os.Stat(filepath.Join(dir, m)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// Dir returns the absolute project directory.
func (r Root) Dir() string { return r.dir }

// Path joins slash-separated project-relative elements onto the root.
func (r Root) Path(rel ...string) string {
	parts := []string{r.dir}
	for _, p := range rel {
		parts = append(parts, filepath.FromSlash(p))
	}
	return filepath.Join(parts...)
}

// Exists reports whether a project-relative path exists.
func (r Root) Exists(rel string) bool {
	_, err := os.Stat(r.Path(rel))
	return err == nil
}
