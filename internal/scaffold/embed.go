package scaffold

import (
	"embed"
	"io/fs"
)

//go:embed all:stubs
var scaffoldFS embed.FS

// ModuleTemplateRoot is the template tree's root inside TemplateFS.
const ModuleTemplateRoot = "stubs/module"

// TemplateFS returns the embedded stubs.
func TemplateFS() fs.FS { return scaffoldFS }
