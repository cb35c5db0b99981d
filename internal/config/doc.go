// Package config manages per-project settings stored in hotswap.yaml at the
// project root. Values resolve in this order: HOTSWAP_* environment
// variables, the settings file, the front-end choice recorded as
// HOTSWAP_ENV in the project's .env, then built-in defaults. The settings
// file is validated against an embedded JSON Schema on every load and
// before every write.
package config
