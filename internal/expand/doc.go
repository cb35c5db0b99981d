// Package expand instantiates a module template: it copies a read-only
// template tree into a new module directory and then drives the token
// substitution engine over the copy. The template can come from the binary's
// embedded stubs or from any directory through os.DirFS.
package expand
