// Package substitute rewrites the placeholder token pair inside a generated
// module tree: file contents first, then file names, then directory names
// deepest first. Every step skips work that is already done, so a partially
// applied tree can be passed through again.
package substitute
