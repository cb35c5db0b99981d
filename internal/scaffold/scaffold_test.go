package scaffold

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/hotswap-labs/hotswap/internal/module"
)

func testTree(t *testing.T) module.Tree {
	t.Helper()
	n, err := module.Parse("ecommerce")
	if err != nil {
		t.Fatal(err)
	}
	return module.NewTree(t.TempDir(), module.NewLayout(""), n)
}

func TestNewArtifactData(t *testing.T) {
	n, _ := module.Parse("ecommerce")

	t.Run("model name", func(t *testing.T) {
		d := NewArtifactData(n, "product", true)
		if d.Package != "Ecommerce" {
			t.Errorf("Package = %q, want %q", d.Package, "Ecommerce")
		}
		if d.Name != "Product" {
			t.Errorf("Name = %q, want %q", d.Name, "Product")
		}
		if d.Variable != "product" {
			t.Errorf("Variable = %q, want %q", d.Variable, "product")
		}
		if !d.Resource {
			t.Error("Resource should be true")
		}
	})

	t.Run("factory name", func(t *testing.T) {
		d := NewArtifactData(n, "UserFactory", false)
		if d.Model != "User" {
			t.Errorf("Model = %q, want %q", d.Model, "User")
		}
	})
}

func TestControllerPlain(t *testing.T) {
	tree := testTree(t)

	path, err := Controller(tree, "product", false)
	if err != nil {
		t.Fatalf("Controller() error: %v", err)
	}
	if !strings.HasSuffix(path, "src/App/Http/Controllers/ProductController.php") {
		t.Errorf("path = %s", path)
	}

	content := readGenerated(t, path)
	assertContains(t, content, `namespace Ecommerce\App\Http\Controllers;`)
	assertContains(t, content, "class ProductController extends Controller\n{\n}\n")
	assertNotContains(t, content, `use Ecommerce\App\Models\Product;`)
	assertNotContains(t, content, "public function index()")
}

func TestControllerResource(t *testing.T) {
	tree := testTree(t)

	path, err := Controller(tree, "ProductController", true)
	if err != nil {
		t.Fatalf("Controller() error: %v", err)
	}

	content := readGenerated(t, path)
	assertContains(t, content, `use Ecommerce\App\Models\Product;`)
	assertContains(t, content, "class ProductController extends Controller")
	for _, method := range []string{"index()", "create()", "store(Request $request)",
		"show(Product $product)", "edit(Product $product)",
		"update(Request $request, Product $product)", "destroy(Product $product)"} {
		assertContains(t, content, "public function "+method)
	}
}

func TestControllerAlreadyExists(t *testing.T) {
	tree := testTree(t)

	path, err := Controller(tree, "product", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("hand edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = Controller(tree, "product", true)
	if !errors.Is(err, module.ErrAlreadyExists) {
		t.Fatalf("error = %v, want ErrAlreadyExists", err)
	}
	if got := readGenerated(t, path); got != "hand edited" {
		t.Errorf("existing controller overwritten: %q", got)
	}
}

func TestFactory(t *testing.T) {
	tree := testTree(t)

	path, err := Factory(tree, "customer")
	if err != nil {
		t.Fatalf("Factory() error: %v", err)
	}
	if !strings.HasSuffix(path, "src/databases/factories/CustomerFactory.php") {
		t.Errorf("path = %s", path)
	}

	content := readGenerated(t, path)
	assertContains(t, content, `namespace Ecommerce\Factories;`)
	assertContains(t, content, `Factory<\Ecommerce\App\Models\Customer>`)
	assertContains(t, content, "class CustomerFactory extends Factory")
	assertContains(t, content, "static::$password ??= Hash::make('password')")
}

func TestFactoryAlreadyExists(t *testing.T) {
	tree := testTree(t)

	if _, err := Factory(tree, "UserFactory"); err != nil {
		t.Fatal(err)
	}
	if _, err := Factory(tree, "user"); !errors.Is(err, module.ErrAlreadyExists) {
		t.Fatalf("error = %v, want ErrAlreadyExists", err)
	}
}

func TestHostEntry(t *testing.T) {
	tests := []struct {
		frontend string
		rel      string
		marker   string
	}{
		{FrontendReact, "resources/js/app.tsx", "@inertiajs/react"},
		{FrontendVue, "resources/js/app.ts", "@inertiajs/vue3"},
	}

	for _, tt := range tests {
		data, rel, err := HostEntry(tt.frontend)
		if err != nil {
			t.Fatalf("HostEntry(%q) error: %v", tt.frontend, err)
		}
		if rel != tt.rel {
			t.Errorf("HostEntry(%q) rel = %q, want %q", tt.frontend, rel, tt.rel)
		}
		assertContains(t, string(data), tt.marker)
	}

	if _, _, err := HostEntry("svelte"); err == nil {
		t.Error("expected error for unknown frontend")
	}
}

func TestLookupVariant(t *testing.T) {
	v, ok := LookupVariant(FrontendVue)
	if !ok {
		t.Fatal("vue variant missing")
	}
	if v.Target != "index.vue" || v.Replace != "index.tsx" {
		t.Errorf("variant = %+v", v)
	}
	if _, err := fs.Stat(TemplateFS(), v.Source); err != nil {
		t.Errorf("variant source not embedded: %v", err)
	}

	if _, ok := LookupVariant(FrontendReact); ok {
		t.Error("react should not have a variant swap")
	}
}

func TestTemplateFSContainsModuleTree(t *testing.T) {
	for _, rel := range []string{
		"src/App/Providers/AppServiceProvider.php",
		"src/databases/seeders/DatabaseSeeder.php",
		"src/databases/migrations/.gitkeep",
		"src/databases/factories/.gitkeep",
		"src/resources/js/app.tsx",
		"src/resources/js/pages/placeholder/index.tsx",
	} {
		if _, err := fs.Stat(TemplateFS(), ModuleTemplateRoot+"/"+rel); err != nil {
			t.Errorf("template missing %s: %v", rel, err)
		}
	}
}

// ─── Test Helpers ──────────────────────────────────────────────────

func readGenerated(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}

func assertNotContains(t *testing.T, content, substr string) {
	t.Helper()
	if strings.Contains(content, substr) {
		t.Errorf("content should not contain %q", substr)
	}
}
