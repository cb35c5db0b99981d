package artisan

import (
	"regexp"
	"strings"
)

var namespaceDecl = regexp.MustCompile(`(?m)^namespace\s+[^;]+;`)

// RewriteModel moves a generated model into the module namespace and wires
// it to the module's factory: HasFactory trait plus a newFactory() that
// points at <Package>\Factories\<Model>Factory. Running it twice gives the
// same result.
func RewriteModel(src, pkg, model string) string {
	ns := "namespace " + pkg + `\App\Models;`
	out := replaceNamespace(src, ns)

	factory := model + "Factory"
	out = addImports(out, ns,
		`use Illuminate\Database\Eloquent\Factories\HasFactory;`,
		"use "+pkg+`\Factories\`+factory+";",
	)

	if !regexp.MustCompile(`(?m)^\s*use\s+[^;]*\bHasFactory\b[^;]*;`).MatchString(classBody(out)) {
		out = insertAfterClassOpen(out, "    use HasFactory;\n")
	}

	if !strings.Contains(out, "function newFactory") {
		method := "\n" +
			"    /**\n" +
			"     * Resolve the factory from the module rather than database/factories.\n" +
			"     */\n" +
			"    protected static function newFactory(): " + factory + "\n" +
			"    {\n" +
			"        return " + factory + "::new();\n" +
			"    }\n"
		out = insertBeforeClassClose(out, method)
	}
	return out
}

// RewriteController moves a generated controller into the module namespace.
// The base Controller stays in the host, so it gets an explicit import.
func RewriteController(src, pkg string) string {
	ns := "namespace " + pkg + `\App\Http\Controllers;`
	out := replaceNamespace(src, ns)
	return addImports(out, ns, `use App\Http\Controllers\Controller;`)
}

func replaceNamespace(src, ns string) string {
	done := false
	return namespaceDecl.ReplaceAllStringFunc(src, func(m string) string {
		if done {
			return m
		}
		done = true
		return ns
	})
}

// addImports places missing use statements in a block right after the
// namespace declaration.
func addImports(src, ns string, imports ...string) string {
	var missing []string
	for _, imp := range imports {
		if !strings.Contains(src, imp) {
			missing = append(missing, imp)
		}
	}
	if len(missing) == 0 {
		return src
	}
	i := strings.Index(src, ns)
	if i < 0 {
		return src
	}
	at := i + len(ns)
	return src[:at] + "\n\n" + strings.Join(missing, "\n") + src[at:]
}

func classBody(src string) string {
	open := strings.Index(src, "{")
	if open < 0 {
		return ""
	}
	return src[open:]
}

func insertAfterClassOpen(src, text string) string {
	loc := regexp.MustCompile(`(?m)^(?:final\s+|abstract\s+)?class\s+\w+[^{]*\{[ \t]*\n`).FindStringIndex(src)
	if loc == nil {
		return src
	}
	return src[:loc[1]] + text + src[loc[1]:]
}

func insertBeforeClassClose(src, text string) string {
	end := strings.LastIndex(src, "}")
	if end < 0 {
		return src
	}
	head := strings.TrimRight(src[:end], " \t\n")
	return head + "\n" + text + src[end:]
}
