package artisan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// Workspace ties a Generator to the host project and module layout.
type Workspace struct {
	ProjectDir string
	Layout     module.Layout
	Gen        Generator
}

// ModelOptions mirrors the model command's flags.
type ModelOptions struct {
	Migration  bool
	Controller bool
	Resource   bool
}

// ModelResult lists the files a model generation produced.
type ModelResult struct {
	Model      string
	Migration  string // migration name, when requested
	Controller string
}

func (w Workspace) tree(pkg module.Name) (module.Tree, error) {
	tree := module.NewTree(w.ProjectDir, w.Layout, pkg)
	if _, err := os.Stat(tree.Root); err != nil {
		return tree, &module.NotFoundError{Kind: "module", Path: w.Layout.Dir(pkg)}
	}
	return tree, nil
}

// MakeModel generates a model with artisan, moves it into the module and
// rewrites it. Optionally it also creates the table migration and a
// controller bound to the model.
func (w Workspace) MakeModel(ctx context.Context, pkg module.Name, raw string, opts ModelOptions) (*ModelResult, error) {
	tree, err := w.tree(pkg)
	if err != nil {
		return nil, err
	}
	model := module.StudlyPreserve(raw)
	if model == "" {
		return nil, fmt.Errorf("invalid model name %q", raw)
	}

	target := tree.Path(module.ModelsDir, model+".php")
	if _, err := os.Stat(target); err == nil {
		return nil, &module.AlreadyExistsError{Kind: "model", Path: target}
	}

	if err := w.Gen.MakeModel(ctx, model); err != nil {
		return nil, fmt.Errorf("make:model %s: %w", model, err)
	}
	src := filepath.Join(w.ProjectDir, "app", "Models", model+".php")
	if err := relocate(src, target, func(s string) string {
		return RewriteModel(s, pkg.Identifier, model)
	}); err != nil {
		return nil, err
	}
	res := &ModelResult{Model: target}

	if opts.Migration {
		name := ModelMigrationName(model)
		if err := w.migrate(ctx, tree, pkg, name); err != nil {
			return res, err
		}
		res.Migration = name
	}

	if opts.Controller {
		path, err := w.makeController(ctx, tree, pkg, model+"Controller", pkg.Identifier+`\App\Models\`+model, opts.Resource)
		if err != nil {
			return res, err
		}
		res.Controller = path
	}
	return res, nil
}

// MakeController generates a controller with artisan and moves it into
// the module.
func (w Workspace) MakeController(ctx context.Context, pkg module.Name, raw string, resource bool) (string, error) {
	tree, err := w.tree(pkg)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(module.StudlyPreserve(raw), "Controller") + "Controller"
	return w.makeController(ctx, tree, pkg, name, "", resource)
}

func (w Workspace) makeController(ctx context.Context, tree module.Tree, pkg module.Name, name, model string, resource bool) (string, error) {
	target := tree.Path(module.ControllersDir, name+".php")
	if _, err := os.Stat(target); err == nil {
		return "", &module.AlreadyExistsError{Kind: "controller", Path: target}
	}
	if err := w.Gen.MakeController(ctx, name, model, resource); err != nil {
		return "", fmt.Errorf("make:controller %s: %w", name, err)
	}
	src := filepath.Join(w.ProjectDir, "app", "Http", "Controllers", name+".php")
	if err := relocate(src, target, func(s string) string {
		return RewriteController(s, pkg.Identifier)
	}); err != nil {
		return "", err
	}
	return target, nil
}

// MakeMigration creates a migration directly inside the module. The name
// is normalized with MigrationName and returned.
func (w Workspace) MakeMigration(ctx context.Context, pkg module.Name, raw string) (string, error) {
	tree, err := w.tree(pkg)
	if err != nil {
		return "", err
	}
	name := MigrationName(raw)
	return name, w.migrate(ctx, tree, pkg, name)
}

func (w Workspace) migrate(ctx context.Context, tree module.Tree, pkg module.Name, name string) error {
	if err := os.MkdirAll(tree.Path(module.MigrationsDir), 0o755); err != nil {
		return fmt.Errorf("creating migrations directory: %w", err)
	}
	if err := w.Gen.MakeMigration(ctx, name, w.Layout.Rel(pkg, module.MigrationsDir)); err != nil {
		return fmt.Errorf("make:migration %s: %w", name, err)
	}
	return nil
}

// MigrationName snake-cases raw and wraps it as create_<name>_table unless
// it already starts with create_ or ends with _table.
func MigrationName(raw string) string {
	name := module.Snake(strings.TrimSpace(raw))
	if strings.HasPrefix(name, "create_") || strings.HasSuffix(name, "_table") {
		return name
	}
	return "create_" + name + "_table"
}

// ModelMigrationName is the table migration for a model, e.g.
// "ProductCategory" gives "create_product_categories_table".
func ModelMigrationName(model string) string {
	return "create_" + module.Snake(module.Plural(model)) + "_table"
}

// relocate moves src to dst, rewriting its content on the way.
func relocate(src, dst string, rewrite func(string) string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &module.NotFoundError{Kind: "generated file", Path: src}
		}
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, []byte(rewrite(string(data))), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s: %w", src, err)
	}
	return nil
}
