// Package project locates the host Laravel application and resolves paths
// inside it. Everything hotswap reads or writes is addressed relative to
// this root.
package project
