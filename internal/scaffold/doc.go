// Package scaffold owns the files hotswap ships inside its binary: the module
// template tree, the front-end variant pages, the host entry points written by
// "hotswap scaffold", and the single-file controller and factory stubs. It
// powers the "hotswap controller" and "hotswap factory" commands, which render
// one stub into an existing module without touching any registry.
package scaffold
