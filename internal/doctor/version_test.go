package doctor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConstraintSupport(t *testing.T) {
	tests := []struct {
		constraint       string
		supported, older bool
		wantErr          bool
	}{
		{"^11.31", true, false, false},
		{"^12.0", true, false, false},
		{"11.*", true, false, false},
		{"~11.0", true, false, false},
		{"^10.0", false, true, false},
		{"^10.0|^11.0", true, true, false},
		{"^10.0 || ^11.0", true, true, false},
		{">=9.0", true, true, false},
		{"^11.0@dev", true, false, false},
		{"dev-master", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			supported, older, err := ConstraintSupport(tt.constraint)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ConstraintSupport: %v", err)
			}
			if supported != tt.supported || older != tt.older {
				t.Errorf("got supported=%v older=%v, want %v %v", supported, older, tt.supported, tt.older)
			}
		})
	}
}

func TestVersionSupported(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"v11.9.2", true},
		{"12.0.0", true},
		{"v10.48.4", false},
	}
	for _, tt := range tests {
		got, err := VersionSupported(tt.version)
		if err != nil {
			t.Fatalf("%s: %v", tt.version, err)
		}
		if got != tt.want {
			t.Errorf("VersionSupported(%q) = %v, want %v", tt.version, got, tt.want)
		}
	}
	if _, err := VersionSupported("dev-main"); err == nil {
		t.Error("expected error for non-semver version")
	}
}

func TestInstalledVersion(t *testing.T) {
	dir := t.TempDir()
	lock := filepath.Join(dir, "composer.lock")

	if v, err := InstalledVersion(lock, FrameworkPackage); err != nil || v != "" {
		t.Errorf("missing lock: %q, %v", v, err)
	}

	content := `{"packages": [{"name": "laravel/tinker", "version": "v2.9.0"}, {"name": "laravel/framework", "version": "v11.9.2"}]}`
	if err := os.WriteFile(lock, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	v, err := InstalledVersion(lock, FrameworkPackage)
	if err != nil {
		t.Fatal(err)
	}
	if v != "v11.9.2" {
		t.Errorf("version = %q", v)
	}
}
