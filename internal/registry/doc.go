// Package registry keeps the host project's shared configuration files in
// step with module lifecycle. Each registry (provider list, composer.json,
// vite.config.ts, root DatabaseSeeder) is a stateless transformer from the
// current file content to the new content; the Mutator does the read,
// transform and write around it on every call and caches nothing.
//
// Adds and removes check for the entry first, so both are idempotent and,
// on a file nobody else is editing, each other's inverse.
package registry
