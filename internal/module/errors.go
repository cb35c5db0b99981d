package module

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// AlreadyExistsError reports a target artifact (module tree, single file)
// that is already present. Hotswap never overwrites one.
type AlreadyExistsError struct {
	Kind string // "module", "controller", "factory", ...
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists at %s", e.Kind, e.Path)
}

// Is lets errors.Is(err, ErrAlreadyExists) match.
func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// NotFoundError reports a required source (template root, registry file,
// registry entry) that is missing.
type NotFoundError struct {
	Kind string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s not found at %s", e.Kind, e.Path)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
