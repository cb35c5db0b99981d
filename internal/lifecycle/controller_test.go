package lifecycle

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/hotswap-labs/hotswap/internal/expand"
	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/project"
	"github.com/hotswap-labs/hotswap/internal/registry"
	"github.com/hotswap-labs/hotswap/internal/scaffold"
)

// hostFixtures maps each registry file to the stock fixture it starts from.
var hostFixtures = map[string]string{
	registry.ProvidersFile: "providers.php",
	registry.ComposerFile:  "composer.json",
	registry.ViteFile:      "vite.config.ts",
	registry.SeederFile:    "DatabaseSeeder.php",
}

type fakeAutoloader struct {
	calls int
	err   error
}

func (f *fakeAutoloader) DumpAutoload(context.Context) error {
	f.calls++
	return f.err
}

// newHost lays out a minimal Laravel project with the stock registry files.
func newHost(t *testing.T) project.Root {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "artisan"), []byte("#!/usr/bin/env php\n"), 0755); err != nil {
		t.Fatal(err)
	}
	for rel, fixture := range hostFixtures {
		data, err := os.ReadFile(filepath.Join("..", "registry", "testdata", fixture))
		if err != nil {
			t.Fatalf("reading fixture %s: %v", fixture, err)
		}
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	root, err := project.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func newController(root project.Root, auto *fakeAutoloader) *Controller {
	opts := Options{
		Template:     scaffold.TemplateFS(),
		TemplateRoot: scaffold.ModuleTemplateRoot,
		Logger:       log.New(io.Discard),
	}
	if auto != nil {
		opts.Autoloader = auto
	}
	return New(root, opts)
}

// snapshot reads every registry file so states can be compared byte for byte.
func snapshot(t *testing.T, root project.Root) map[string]string {
	t.Helper()
	out := make(map[string]string, len(hostFixtures))
	for rel := range hostFixtures {
		data, err := os.ReadFile(root.Path(rel))
		if err != nil {
			t.Fatal(err)
		}
		out[rel] = string(data)
	}
	return out
}

func assertSnapshot(t *testing.T, got, want map[string]string) {
	t.Helper()
	for rel, w := range want {
		if got[rel] != w {
			t.Errorf("%s differs:\n--- got ---\n%s\n--- want ---\n%s", rel, got[rel], w)
		}
	}
}

func readFile(t *testing.T, root project.Root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(root.Path(rel))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

const ecommerceProvider = `Ecommerce\App\Providers\AppServiceProvider::class`

func TestCreateEcommerce(t *testing.T) {
	root := newHost(t)
	auto := &fakeAutoloader{}
	c := newController(root, auto)

	rep, err := c.Create(context.Background(), "ecommerce")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rep.Failed() {
		t.Fatalf("report has failed steps: %+v", rep.Steps)
	}

	page := readFile(t, root, "packages/ecommerce/src/resources/js/pages/ecommerce/index.tsx")
	if !strings.Contains(page, "Ecommerce") {
		t.Errorf("page does not mention Ecommerce:\n%s", page)
	}
	if strings.Contains(page, "Placeholder") || strings.Contains(page, "placeholder") {
		t.Errorf("placeholder token survived:\n%s", page)
	}
	if _, err := os.Stat(root.Path("packages/ecommerce/src/resources/js/pages/placeholder")); !os.IsNotExist(err) {
		t.Error("placeholder page directory should have been renamed")
	}

	if !strings.Contains(readFile(t, root, registry.ProvidersFile), ecommerceProvider) {
		t.Error("provider entry missing after create")
	}
	if !strings.Contains(readFile(t, root, registry.ComposerFile), `"Ecommerce\\App\\": "packages/ecommerce/src/App/"`) {
		t.Error("composer autoload entry missing after create")
	}
	if !strings.Contains(readFile(t, root, registry.ViteFile), "'@ecommerce':") {
		t.Error("vite alias missing after create")
	}
	if !strings.Contains(readFile(t, root, registry.SeederFile), `Ecommerce\Seeders\DatabaseSeeder::class`) {
		t.Error("seeder call missing after create")
	}

	for _, target := range []string{"tree", "providers", "composer", "vite", "seeder"} {
		step, ok := rep.Step(target)
		if !ok {
			t.Errorf("no %s step", target)
			continue
		}
		if target != "tree" && step.Outcome != string(registry.OutcomeAdded) {
			t.Errorf("%s outcome = %q, want added", target, step.Outcome)
		}
	}
	if auto.calls != 1 {
		t.Errorf("autoloader called %d times, want 1", auto.calls)
	}
	if step, _ := rep.Step("autoload"); step.Outcome != OutcomeRegenerated {
		t.Errorf("autoload outcome = %q", step.Outcome)
	}
}

func TestCreateTwiceLeavesProjectUnchanged(t *testing.T) {
	root := newHost(t)
	c := newController(root, nil)

	if _, err := c.Create(context.Background(), "ecommerce"); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, root)
	page := readFile(t, root, "packages/ecommerce/src/App/Providers/AppServiceProvider.php")

	_, err := c.Create(context.Background(), "ecommerce")
	if !errors.Is(err, module.ErrAlreadyExists) {
		t.Fatalf("second Create err = %v, want ErrAlreadyExists", err)
	}
	assertSnapshot(t, snapshot(t, root), before)
	if got := readFile(t, root, "packages/ecommerce/src/App/Providers/AppServiceProvider.php"); got != page {
		t.Error("existing module tree was modified")
	}
}

func TestCreateInvalidName(t *testing.T) {
	root := newHost(t)
	c := newController(root, nil)
	before := snapshot(t, root)

	if _, err := c.Create(context.Background(), "Bad Name"); err == nil {
		t.Fatal("expected error for invalid name")
	}
	assertSnapshot(t, snapshot(t, root), before)
	if _, err := os.Stat(root.Path("packages")); !os.IsNotExist(err) {
		t.Error("packages directory should not be created")
	}
}

func TestCreateMissingTemplate(t *testing.T) {
	root := newHost(t)
	c := New(root, Options{
		Template:     scaffold.TemplateFS(),
		TemplateRoot: "stubs/nope",
		Logger:       log.New(io.Discard),
	})
	_, err := c.Create(context.Background(), "ecommerce")
	if !errors.Is(err, module.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(root.Path("packages", "ecommerce")); !os.IsNotExist(err) {
		t.Error("no tree should be written when the template is missing")
	}
}

func TestCreateSkipsMissingRegistry(t *testing.T) {
	root := newHost(t)
	if err := os.Remove(root.Path(registry.ViteFile)); err != nil {
		t.Fatal(err)
	}
	c := newController(root, nil)

	rep, err := c.Create(context.Background(), "ecommerce")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	step, _ := rep.Step("vite")
	if step.Outcome != string(registry.OutcomeSkipped) {
		t.Errorf("vite outcome = %q, want skipped", step.Outcome)
	}
	if step, _ := rep.Step("providers"); step.Outcome != string(registry.OutcomeAdded) {
		t.Errorf("providers outcome = %q, want added", step.Outcome)
	}
	if step, _ := rep.Step("autoload"); step.Outcome != OutcomeDisabled {
		t.Errorf("autoload outcome = %q, want disabled", step.Outcome)
	}
}

func TestCreateAutoloadFailureIsWarning(t *testing.T) {
	root := newHost(t)
	c := newController(root, &fakeAutoloader{err: errors.New("composer not found")})

	rep, err := c.Create(context.Background(), "ecommerce")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	step, _ := rep.Step("autoload")
	if step.Outcome != OutcomeFailed || len(step.Warnings) == 0 {
		t.Errorf("autoload step = %+v", step)
	}
	if !strings.Contains(readFile(t, root, registry.ProvidersFile), ecommerceProvider) {
		t.Error("registries should still be updated")
	}
}

func TestCreateVueVariant(t *testing.T) {
	root := newHost(t)
	v, ok := scaffold.LookupVariant(scaffold.FrontendVue)
	if !ok {
		t.Fatal("no vue variant")
	}
	c := New(root, Options{
		Template:     scaffold.TemplateFS(),
		TemplateRoot: scaffold.ModuleTemplateRoot,
		Variant:      &expand.Swap{Source: v.Source, Target: v.Target, Replace: v.Replace},
		Logger:       log.New(io.Discard),
	})
	if _, err := c.Create(context.Background(), "blog"); err != nil {
		t.Fatal(err)
	}
	pageDir := root.Path("packages", "blog", "src", "resources", "js", "pages", "blog")
	if _, err := os.Stat(filepath.Join(pageDir, "index.vue")); err != nil {
		t.Errorf("index.vue missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(pageDir, "index.tsx")); !os.IsNotExist(err) {
		t.Error("index.tsx should be replaced by the vue page")
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	root := newHost(t)
	c := newController(root, nil)
	if _, err := c.Create(context.Background(), "ecommerce"); err != nil {
		t.Fatal(err)
	}
	afterCreate := snapshot(t, root)

	rep, err := c.Pause("ecommerce")
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if step, _ := rep.Step("providers"); step.Outcome != OutcomePaused {
		t.Errorf("pause outcome = %q", step.Outcome)
	}
	providers := readFile(t, root, registry.ProvidersFile)
	if !strings.Contains(providers, "//") || (registry.Providers{}).State([]byte(providers), module.Name{Slug: "ecommerce", Identifier: "Ecommerce"}) != registry.ProviderPaused {
		t.Errorf("provider not paused:\n%s", providers)
	}
	if _, err := os.Stat(root.Path("packages", "ecommerce")); err != nil {
		t.Error("pause must not touch the tree")
	}

	if _, err := c.Resume("ecommerce"); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	assertSnapshot(t, snapshot(t, root), afterCreate)
}

func TestPauseTwiceIsNoop(t *testing.T) {
	root := newHost(t)
	c := newController(root, nil)
	if _, err := c.Create(context.Background(), "ecommerce"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Pause("ecommerce"); err != nil {
		t.Fatal(err)
	}
	paused := snapshot(t, root)

	rep, err := c.Pause("ecommerce")
	if err != nil {
		t.Fatalf("second Pause: %v", err)
	}
	if step, _ := rep.Step("providers"); step.Outcome != OutcomeWasPaused {
		t.Errorf("outcome = %q, want %q", step.Outcome, OutcomeWasPaused)
	}
	assertSnapshot(t, snapshot(t, root), paused)

	if _, err := c.Resume("ecommerce"); err != nil {
		t.Fatal(err)
	}
	rep, err = c.Resume("ecommerce")
	if err != nil {
		t.Fatalf("second Resume: %v", err)
	}
	if step, _ := rep.Step("providers"); step.Outcome != OutcomeWasActive {
		t.Errorf("outcome = %q, want %q", step.Outcome, OutcomeWasActive)
	}
}

func TestPauseUnknownModule(t *testing.T) {
	root := newHost(t)
	c := newController(root, nil)
	_, err := c.Pause("ghost")
	if !errors.Is(err, module.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveIsTotal(t *testing.T) {
	for _, paused := range []bool{false, true} {
		name := "active"
		if paused {
			name = "paused"
		}
		t.Run(name, func(t *testing.T) {
			root := newHost(t)
			original := snapshot(t, root)
			auto := &fakeAutoloader{}
			c := newController(root, auto)

			if _, err := c.Create(context.Background(), "ecommerce"); err != nil {
				t.Fatal(err)
			}
			if paused {
				if _, err := c.Pause("ecommerce"); err != nil {
					t.Fatal(err)
				}
			}

			rep, err := c.Remove(context.Background(), "ecommerce")
			if err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if step, _ := rep.Step("tree"); step.Outcome != OutcomeDeleted {
				t.Errorf("tree outcome = %q", step.Outcome)
			}
			if step, _ := rep.Step("autoload"); step.Outcome != OutcomeRegenerated {
				t.Errorf("autoload outcome = %q, want regenerated", step.Outcome)
			}
			if auto.calls != 2 {
				t.Errorf("autoload calls = %d, want one for create and one for remove", auto.calls)
			}
			if _, err := os.Stat(root.Path("packages", "ecommerce")); !os.IsNotExist(err) {
				t.Error("module tree still exists")
			}
			after := snapshot(t, root)
			for rel, content := range after {
				if strings.Contains(content, "Ecommerce") || strings.Contains(content, "ecommerce") {
					t.Errorf("%s still references the module:\n%s", rel, content)
				}
			}
			assertSnapshot(t, after, original)
		})
	}
}

func TestRemoveNonexistentWarns(t *testing.T) {
	root := newHost(t)
	original := snapshot(t, root)
	auto := &fakeAutoloader{}
	c := newController(root, auto)

	rep, err := c.Remove(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	step, _ := rep.Step("tree")
	if step.Outcome != OutcomeMissing {
		t.Errorf("tree outcome = %q, want missing", step.Outcome)
	}
	if len(rep.Warnings()) == 0 {
		t.Error("expected a warning for the missing tree")
	}
	for _, target := range []string{"providers", "composer", "vite", "seeder"} {
		if step, _ := rep.Step(target); step.Outcome != string(registry.OutcomeAbsent) {
			t.Errorf("%s outcome = %q, want not present", target, step.Outcome)
		}
	}
	if _, ok := rep.Step("autoload"); ok || auto.calls != 0 {
		t.Error("autoload should not run when composer.json is unchanged")
	}
	assertSnapshot(t, snapshot(t, root), original)
}

func TestRemoveOrphanedEntries(t *testing.T) {
	root := newHost(t)
	c := newController(root, nil)
	if _, err := c.Create(context.Background(), "ecommerce"); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(root.Path("packages", "ecommerce")); err != nil {
		t.Fatal(err)
	}

	st, err := c.Status("ecommerce")
	if err != nil {
		t.Fatal(err)
	}
	if st.State() != "orphaned" {
		t.Errorf("state = %q, want orphaned", st.State())
	}

	if _, err := c.Remove(context.Background(), "ecommerce"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(readFile(t, root, registry.ProvidersFile), ecommerceProvider) {
		t.Error("orphaned provider entry not removed")
	}
}

func TestStatusAndList(t *testing.T) {
	root := newHost(t)
	c := newController(root, nil)
	ctx := context.Background()

	for _, slug := range []string{"shop", "blog"} {
		if _, err := c.Create(ctx, slug); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.Pause("shop"); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(root.Path("packages", "Not A Module"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(root.Path("packages", "README.md"), []byte("notes"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("List = %+v, want 2 modules", got)
	}
	if got[0].Name.Slug != "blog" || got[0].State() != "active" {
		t.Errorf("got[0] = %s %s", got[0].Name.Slug, got[0].State())
	}
	if got[1].Name.Slug != "shop" || got[1].State() != "paused" {
		t.Errorf("got[1] = %s %s", got[1].Name.Slug, got[1].State())
	}

	st, err := c.Status("missing")
	if err != nil {
		t.Fatal(err)
	}
	if st.State() != "absent" {
		t.Errorf("state = %q, want absent", st.State())
	}
}

func TestListWithoutPackagesDir(t *testing.T) {
	c := newController(newHost(t), nil)
	got, err := c.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("List = %+v, want none", got)
	}
}

func TestCreateCustomTemplateDir(t *testing.T) {
	root := newHost(t)
	tmpl := t.TempDir()
	page := filepath.Join(tmpl, "src", "resources", "js", "pages", "placeholder")
	if err := os.MkdirAll(page, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(page, "index.tsx"), []byte("export default function Placeholder() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(root, Options{
		Template:     os.DirFS(tmpl),
		TemplateRoot: ".",
		Layout:       module.NewLayout("modules"),
		Logger:       log.New(io.Discard),
	})
	if _, err := c.Create(context.Background(), "crm"); err != nil {
		t.Fatal(err)
	}
	data, err := fs.ReadFile(os.DirFS(root.Dir()), "modules/crm/src/resources/js/pages/crm/index.tsx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "function Crm()") {
		t.Errorf("page = %s", data)
	}
	if !strings.Contains(readFile(t, root, registry.ViteFile), "'modules/crm/src/resources/js/app.tsx'") {
		t.Error("vite input should use the configured packages directory")
	}
}
