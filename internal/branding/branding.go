// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into
// the binary with //go:embed, so a fork can rename the tool without
// touching code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	EnvPrefix    string `yaml:"env_prefix"`
	SettingsFile string `yaml:"settings_file"`
	GitHubRepo   string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:      "hotswap",
			DisplayName:  "Hotswap",
			Description:  "Laravel module scaffolding",
			EnvPrefix:    "HOTSWAP",
			SettingsFile: "hotswap.yaml",
			GitHubRepo:   "hotswap-labs/hotswap",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "hotswap").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the environment variable prefix (e.g., "HOTSWAP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// SettingsFile returns the project settings file name (e.g., "hotswap.yaml").
func SettingsFile() string { load(); return defaults.SettingsFile }

// GitHubRepo returns the "owner/repo" string shown by `version`.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("env") → "HOTSWAP_ENV".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
