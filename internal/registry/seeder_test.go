package registry

import (
	"errors"
	"testing"
)

func TestSeederAdd(t *testing.T) {
	edit, err := Seeder{}.Add(readFixture(t, "DatabaseSeeder.php"), mustName(t, "ecommerce"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got, want := string(edit.Content), string(readFixture(t, "DatabaseSeeder.added.php")); got != want {
		t.Errorf("Add:\n%s\nwant:\n%s", got, want)
	}
}

func TestSeederAddEmptyRun(t *testing.T) {
	in := "class DatabaseSeeder extends Seeder\n{\n    public function run(): void {}\n}\n"
	want := "class DatabaseSeeder extends Seeder\n{\n    public function run(): void {\n        $this->call(\\Ecommerce\\Seeders\\DatabaseSeeder::class);\n    }\n}\n"

	edit, err := Seeder{}.Add([]byte(in), mustName(t, "ecommerce"))
	if err != nil {
		t.Fatal(err)
	}
	if string(edit.Content) != want {
		t.Errorf("got:\n%s", edit.Content)
	}
}

func TestSeederAddWithoutRun(t *testing.T) {
	_, err := Seeder{}.Add([]byte("<?php\n\nclass DatabaseSeeder {}\n"), mustName(t, "ecommerce"))
	var anchor *AnchorError
	if !errors.As(err, &anchor) {
		t.Fatalf("err = %v, want *AnchorError", err)
	}
}

func TestSeederRemoveHandEdited(t *testing.T) {
	in := "    {\n        $this->call( Ecommerce\\Seeders\\DatabaseSeeder::class );\n        $this->call(\\MyEcommerce\\Seeders\\DatabaseSeeder::class);\n    }\n"
	want := "    {\n        $this->call(\\MyEcommerce\\Seeders\\DatabaseSeeder::class);\n    }\n"

	edit, err := Seeder{}.Remove([]byte(in), mustName(t, "ecommerce"))
	if err != nil {
		t.Fatal(err)
	}
	if string(edit.Content) != want {
		t.Errorf("got:\n%s", edit.Content)
	}
}

func TestSeederAddDetectsHandEditedCall(t *testing.T) {
	in := []byte("public function run(): void\n{\n    $this->call(Ecommerce\\Seeders\\DatabaseSeeder::class);\n}\n")
	edit, err := Seeder{}.Add(in, mustName(t, "ecommerce"))
	if err != nil {
		t.Fatal(err)
	}
	if string(edit.Content) != string(in) {
		t.Errorf("existing call not recognised:\n%s", edit.Content)
	}
}
