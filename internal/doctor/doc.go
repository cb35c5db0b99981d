// Package doctor diagnoses a host project: registry files and their
// anchors, the framework version, required tools, and modules whose tree
// and provider registration disagree.
package doctor
