// Package module defines the naming and layout conventions shared by every
// hotswap component. A module name is parsed once into a Name pair (a
// lowercase slug and a studly identifier) and that pair is what flows through
// template expansion, registry mutation and the single-file generators.
package module
