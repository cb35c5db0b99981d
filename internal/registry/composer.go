package registry

import (
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// ComposerFile is the host's dependency manifest.
const ComposerFile = "composer.json"

// Composer edits composer.json: three PSR-4 autoload roots and one
// package-discovered provider per module.
type Composer struct {
	Layout module.Layout
}

// Name implements Registry.
func (Composer) Name() string { return "composer" }

// File implements Registry.
func (Composer) File() string { return ComposerFile }

// Autoload is one PSR-4 namespace prefix and the directory it maps to.
type Autoload struct {
	Namespace string
	Dir       string
}

// Autoloads returns the PSR-4 entries a module contributes, in insertion
// order.
func (c Composer) Autoloads(n module.Name) []Autoload {
	return []Autoload{
		{n.Identifier + `\App\`, c.Layout.Rel(n, module.AppDir) + "/"},
		{n.Identifier + `\Seeders\`, c.Layout.Rel(n, module.SeedersDir) + "/"},
		{n.Identifier + `\Factories\`, c.Layout.Rel(n, module.FactoriesDir) + "/"},
	}
}

// DiscoveredProvider is the extra.laravel.providers element for n.
func DiscoveredProvider(n module.Name) string {
	return `Packages\` + n.Identifier + `\Src\App\Providers\AppServiceProvider`
}

var (
	psr4Path      = []string{"autoload", "psr-4"}
	providersPath = []string{"extra", "laravel", "providers"}
)

// Add inserts missing autoload keys and the provider. Content is returned
// untouched when everything is already there.
func (c Composer) Add(content []byte, n module.Name) (Edit, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return Edit{}, fmt.Errorf("%s: %w", ComposerFile, err)
	}

	changed := false
	psr4, err := doc.EnsureMap(psr4Path...)
	if err != nil {
		return Edit{}, fmt.Errorf("%s: %w", ComposerFile, err)
	}
	for _, a := range c.Autoloads(n) {
		if mapGet(psr4, a.Namespace) == nil {
			mapSet(psr4, a.Namespace, stringNode(a.Dir))
			changed = true
		}
	}

	providers, err := doc.EnsureList(providersPath...)
	if err != nil {
		return Edit{}, fmt.Errorf("%s: %w", ComposerFile, err)
	}
	if p := DiscoveredProvider(n); listIndex(providers, p) < 0 {
		providers.Content = append(providers.Content, stringNode(p))
		changed = true
	}

	if !changed {
		return Edit{Content: content}, nil
	}
	out, err := doc.Encode()
	if err != nil {
		return Edit{}, err
	}
	return Edit{Content: out}, nil
}

// Remove deletes the module's autoload keys and provider where present.
// Parent objects are left in place even when they become empty.
func (c Composer) Remove(content []byte, n module.Name) (Edit, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return Edit{}, fmt.Errorf("%s: %w", ComposerFile, err)
	}

	changed := false
	if psr4 := doc.Lookup(psr4Path...); psr4 != nil && psr4.Kind == yaml.MappingNode {
		for _, a := range c.Autoloads(n) {
			if mapDelete(psr4, a.Namespace) {
				changed = true
			}
		}
	}
	if providers := doc.Lookup(providersPath...); providers != nil && providers.Kind == yaml.SequenceNode {
		if i := listIndex(providers, DiscoveredProvider(n)); i >= 0 {
			providers.Content = append(providers.Content[:i], providers.Content[i+1:]...)
			changed = true
		}
	}

	if !changed {
		return Edit{Content: content}, nil
	}
	out, err := doc.Encode()
	if err != nil {
		return Edit{}, err
	}
	return Edit{Content: out}, nil
}

// FrameworkConstraint returns the version constraint composer.json places
// on pkg under "require", or "" when there is none.
func FrameworkConstraint(content []byte, pkg string) (string, error) {
	doc, err := ParseDocument(content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ComposerFile, err)
	}
	v := doc.Lookup("require", pkg)
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", nil
	}
	return v.Value, nil
}
