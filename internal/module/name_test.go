package module

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw        string
		slug       string
		identifier string
	}{
		{"ecommerce", "ecommerce", "Ecommerce"},
		{"Ecommerce", "ecommerce", "Ecommerce"},
		{"my-shop", "my-shop", "MyShop"},
		{"blog_admin", "blog_admin", "BlogAdmin"},
		{"  crm ", "crm", "Crm"},
	}

	for _, tt := range tests {
		n, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.raw, err)
		}
		if n.Slug != tt.slug {
			t.Errorf("Parse(%q).Slug = %q, want %q", tt.raw, n.Slug, tt.slug)
		}
		if n.Identifier != tt.identifier {
			t.Errorf("Parse(%q).Identifier = %q, want %q", tt.raw, n.Identifier, tt.identifier)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, raw := range []string{"", "1shop", "my/shop", "../evil", "shop.v2"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) should fail", raw)
		}
	}
}

func TestIdentifierTracksSlug(t *testing.T) {
	n, err := Parse("ECOMMERCE")
	if err != nil {
		t.Fatal(err)
	}
	if n.Identifier != Studly(n.Slug) {
		t.Errorf("Identifier %q diverged from Studly(%q)", n.Identifier, n.Slug)
	}
}

func TestStringHelpers(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{StudlyPreserve, "productCategory", "ProductCategory"},
		{StudlyPreserve, "order-item", "OrderItem"},
		{StudlyPreserve, "élan", "Élan"},
		{StudlyPreserve, "café-ölçer", "CaféÖlçer"},
		{Snake, "ProductCategory", "product_category"},
		{Snake, "Products", "products"},
		{Camel, "Product", "product"},
		{Plural, "Product", "Products"},
		{Plural, "Category", "Categories"},
		{Plural, "Box", "Boxes"},
		{Plural, "Day", "Days"},
	}

	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("helper(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLayout(t *testing.T) {
	n, _ := Parse("ecommerce")

	l := NewLayout("")
	if got := l.Dir(n); got != "packages/ecommerce" {
		t.Errorf("Dir = %q", got)
	}
	if got := l.Rel(n, AppDir) + "/"; got != "packages/ecommerce/src/App/" {
		t.Errorf("Rel = %q", got)
	}

	tree := NewTree("/srv/app", l, n)
	if tree.Root != filepath.Join("/srv/app", "packages", "ecommerce") {
		t.Errorf("Root = %q", tree.Root)
	}
	if got := tree.PageDir(); got != filepath.Join(tree.Root, "src", "resources", "js", "pages", "ecommerce") {
		t.Errorf("PageDir = %q", got)
	}
}

func TestTypedErrors(t *testing.T) {
	var err error = &AlreadyExistsError{Kind: "module", Path: "packages/x"}
	if !errors.Is(err, ErrAlreadyExists) {
		t.Error("AlreadyExistsError should match ErrAlreadyExists")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("AlreadyExistsError should not match ErrNotFound")
	}

	err = &NotFoundError{Kind: "template"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}
	if err.Error() != "template not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}
