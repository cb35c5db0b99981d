package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// Front-end variants.
const (
	FrontendReact = "react"
	FrontendVue   = "vue"
)

// Frontends lists the supported variants in menu order.
var Frontends = []string{FrontendReact, FrontendVue}

// ArtifactData holds the template variables available to artifact stubs.
type ArtifactData struct {
	Package  string // module identifier, e.g. "Ecommerce"
	Name     string // class name, e.g. "Product" or "ProductFactory"
	Model    string // model class a factory builds, e.g. "Product"
	Variable string // camel-cased Name, used for route-model binding
	Resource bool   // include CRUD methods
}

// NewArtifactData derives the template variables for an artifact named raw.
func NewArtifactData(pkg module.Name, raw string, resource bool) *ArtifactData {
	name := module.StudlyPreserve(raw)
	return &ArtifactData{
		Package:  pkg.Identifier,
		Name:     name,
		Model:    strings.TrimSuffix(name, "Factory"),
		Variable: module.Camel(name),
		Resource: resource,
	}
}

// Controller writes src/App/Http/Controllers/<Name>Controller.php.
func Controller(tree module.Tree, raw string, resource bool) (string, error) {
	data := NewArtifactData(tree.Name, raw, resource)
	data.Name = strings.TrimSuffix(data.Name, "Controller")
	data.Variable = module.Camel(data.Name)
	target := tree.Path(module.ControllersDir, data.Name+"Controller.php")
	return target, writeArtifact("controller", "controller.php.tmpl", target, data)
}

// Factory writes src/databases/factories/<Name>.php. A name without the
// "Factory" suffix gets one appended.
func Factory(tree module.Tree, raw string) (string, error) {
	data := NewArtifactData(tree.Name, raw, false)
	if !strings.HasSuffix(data.Name, "Factory") {
		data.Name += "Factory"
	}
	target := tree.Path(module.FactoriesDir, data.Name+".php")
	return target, writeArtifact("factory", "factory.php.tmpl", target, data)
}

// Render executes an artifact stub without writing it.
func Render(stub string, data *ArtifactData) ([]byte, error) {
	tmplPath := path.Join("stubs", "artifacts", stub)
	tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
	}

	tmpl, err := template.New(stub).Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", stub, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", stub, err)
	}
	return buf.Bytes(), nil
}

// writeArtifact is the single check-then-write step shared by the generators.
func writeArtifact(kind, stub, target string, data *ArtifactData) error {
	if _, err := os.Stat(target); err == nil {
		return &module.AlreadyExistsError{Kind: kind, Path: target}
	}

	out, err := Render(stub, data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}

// Variant describes a single-file swap applied after template expansion.
type Variant struct {
	Source  string // path inside TemplateFS
	Target  string // file name written into the module's page directory
	Replace string // file name deleted from the page directory
}

var variants = map[string]Variant{
	FrontendVue: {Source: "stubs/variants/vue/index.vue", Target: "index.vue", Replace: "index.tsx"},
}

// LookupVariant returns the swap for frontend. React is the template's
// native form and has none.
func LookupVariant(frontend string) (Variant, bool) {
	v, ok := variants[frontend]
	return v, ok
}

// HostEntry returns the host application entry point for frontend and its
// project-relative path.
func HostEntry(frontend string) ([]byte, string, error) {
	var src, rel string
	switch frontend {
	case FrontendReact:
		src, rel = "stubs/frontend/react/app.tsx", "resources/js/app.tsx"
	case FrontendVue:
		src, rel = "stubs/frontend/vue/app.ts", "resources/js/app.ts"
	default:
		return nil, "", fmt.Errorf("unknown frontend %q: must be one of %s", frontend, strings.Join(Frontends, ", "))
	}

	data, err := fs.ReadFile(scaffoldFS, src)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", src, err)
	}
	return data, rel, nil
}
