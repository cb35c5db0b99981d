//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hotswap-labs/hotswap/internal/project"
	"github.com/hotswap-labs/hotswap/internal/registry"
)

// testEnv holds paths to an isolated host project and fake tools.
type testEnv struct {
	ProjectDir string // a mock Laravel application
	BinDir     string // fake php and composer, first on PATH
	Root       project.Root
}

// setupTestEnv creates a host project from the registry fixtures and puts
// fake php and composer binaries first on PATH so no real toolchain runs.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}

	env := &testEnv{
		ProjectDir: t.TempDir(),
		BinDir:     t.TempDir(),
	}

	fixtures := map[string]string{
		registry.ProvidersFile: "providers.php",
		registry.ComposerFile:  "composer.json",
		registry.ViteFile:      "vite.config.ts",
		registry.SeederFile:    "DatabaseSeeder.php",
	}
	for rel, name := range fixtures {
		data, err := os.ReadFile(filepath.Join("..", "..", "internal", "registry", "testdata", name))
		if err != nil {
			t.Fatalf("reading fixture %s: %v", name, err)
		}
		writeFile(t, filepath.Join(env.ProjectDir, filepath.FromSlash(rel)), string(data))
	}
	writeFile(t, filepath.Join(env.ProjectDir, "artisan"), "#!/usr/bin/env php\n")
	writeFile(t, filepath.Join(env.ProjectDir, ".env"), "APP_NAME=Laravel\nAPP_ENV=local\n")
	writeFile(t, filepath.Join(env.ProjectDir, "composer.lock"), `{"packages": [{"name": "laravel/framework", "version": "v11.9.2"}]}`)
	writeFile(t, filepath.Join(env.ProjectDir, "resources", "views", "app.blade.php"),
		"<head>\n    @viteReactRefresh\n    @vite(['resources/js/app.tsx', \"resources/js/pages/{$page['component']}.tsx\"])\n</head>\n")

	writeExecutable(t, filepath.Join(env.BinDir, "php"), fakePHP)
	writeExecutable(t, filepath.Join(env.BinDir, "composer"), fakeComposer)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	root, err := project.New(env.ProjectDir)
	if err != nil {
		t.Fatal(err)
	}
	env.Root = root
	return env
}

// path joins rel onto the project directory.
func (e *testEnv) path(rel string) string {
	return filepath.Join(e.ProjectDir, filepath.FromSlash(rel))
}

// fakePHP imitates the artisan generators by writing to the default output
// locations the real commands use.
const fakePHP = `#!/bin/sh
shift
cmd="$1"
name="$2"
case "$cmd" in
make:model)
  mkdir -p app/Models
  cat > "app/Models/$name.php" <<PHP
<?php

namespace App\Models;

use Illuminate\Database\Eloquent\Model;

class $name extends Model
{
    //
}
PHP
  ;;
make:controller)
  mkdir -p app/Http/Controllers
  cat > "app/Http/Controllers/$name.php" <<PHP
<?php

namespace App\Http\Controllers;

use Illuminate\Http\Request;

class $name extends Controller
{
    //
}
PHP
  ;;
make:migration)
  dir=database/migrations
  for a in "$@"; do
    case "$a" in --path=*) dir="${a#--path=}" ;; esac
  done
  mkdir -p "$dir"
  echo "<?php" > "$dir/2024_01_01_000000_$name.php"
  ;;
*)
  echo "unknown command $cmd" >&2
  exit 1
  ;;
esac
`

const fakeComposer = `#!/bin/sh
echo "$*" >> .composer-calls
`

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
