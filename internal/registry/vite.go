package registry

import (
	"regexp"
	"strings"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// ViteFile is the host's frontend build configuration.
const ViteFile = "vite.config.ts"

// Vite edits vite.config.ts. The file is program text, so this is a
// line-oriented patcher rather than a parser: it finds the laravel() input
// array and the resolve alias object by anchor, locates their closing
// bracket by matching, and adds or drops whole lines.
//
// Multi-line blocks are edited in place. An inline block (all elements on
// the opening line) is rewritten with one element per line the first time
// an entry is added to it.
type Vite struct {
	Layout module.Layout
}

// Name implements Registry.
func (Vite) Name() string { return "vite" }

// File implements Registry.
func (Vite) File() string { return ViteFile }

var (
	inputAnchor = regexp.MustCompile(`laravel\s*\(\s*\{[\s\S]*?\binput\s*:\s*\[`)
	aliasAnchor = regexp.MustCompile(`\balias\s*:\s*\{`)
)

// InputEntry is the build input element for n.
func (v Vite) InputEntry(n module.Name) string {
	return "'" + v.Layout.Rel(n, module.JSDir, "app.tsx") + "'"
}

// AliasEntry is the import alias property for n.
func (v Vite) AliasEntry(n module.Name) string {
	return v.aliasKey(n) + " path.resolve(__dirname, '" + v.Layout.Rel(n, module.JSDir) + "')"
}

func (Vite) aliasKey(n module.Name) string {
	return "'@" + n.Slug + "':"
}

type viteBlock struct {
	anchor  *regexp.Regexp
	label   string
	entry   string
	present func(content string) bool
	owns    func(line string) bool
}

func (v Vite) blocks(n module.Name) []viteBlock {
	input := v.InputEntry(n)
	key := v.aliasKey(n)
	return []viteBlock{
		{
			anchor:  inputAnchor,
			label:   "laravel({ input: [...] })",
			entry:   input,
			present: func(c string) bool { return strings.Contains(c, input) },
			owns: func(l string) bool {
				return strings.TrimSuffix(strings.TrimSpace(l), ",") == input
			},
		},
		{
			anchor:  aliasAnchor,
			label:   "alias: {...}",
			entry:   v.AliasEntry(n),
			present: func(c string) bool { return strings.Contains(c, key) },
			owns: func(l string) bool {
				return strings.HasPrefix(strings.TrimSpace(l), key)
			},
		},
	}
}

// Add appends the input and alias entries to their blocks. A missing block
// is reported as a warning and the other block is still edited; when
// neither block exists the result is an *AnchorError.
func (v Vite) Add(content []byte, n module.Name) (Edit, error) {
	var warnings []string
	missing := 0
	for _, b := range v.blocks(n) {
		if b.present(string(content)) {
			continue
		}
		out, ok, inline := appendToBlock(content, b.anchor, b.entry)
		if !ok {
			missing++
			warnings = append(warnings, "could not find "+b.label+" in "+ViteFile)
			continue
		}
		if inline {
			warnings = append(warnings, b.label+" rewritten with one entry per line")
		}
		content = out
	}
	if missing == 2 {
		return Edit{}, &AnchorError{File: ViteFile, Anchor: "laravel input or alias block"}
	}
	return Edit{Content: content, Warnings: warnings}, nil
}

// Remove drops the lines holding the module's input and alias. Entries
// written inline next to others are cut out by pattern instead.
func (v Vite) Remove(content []byte, n module.Name) (Edit, error) {
	for _, b := range v.blocks(n) {
		if !b.present(string(content)) {
			continue
		}
		lines, dropped := dropLines(splitLines(content), b.owns)
		if dropped > 0 {
			content = joinLines(lines)
			continue
		}
		content = inlinePattern(b.entry).ReplaceAll(content, nil)
	}
	return Edit{Content: content}, nil
}

func inlinePattern(entry string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(entry) + `[ \t]*,?[ \t]*`)
}

// appendToBlock adds entry as the last element of the bracket opened at the
// end of the anchor match. inline reports that the block was reflowed.
func appendToBlock(content []byte, anchor *regexp.Regexp, entry string) (out []byte, ok, inline bool) {
	loc := anchor.FindIndex(content)
	if loc == nil {
		return nil, false, false
	}
	open := loc[1] - 1
	closeAt := matchBracket(content, open)
	if closeAt < 0 {
		return nil, false, false
	}

	lines := splitLines(content)
	openLine := lineIndexAt(content, open)
	closeLine := lineIndexAt(content, closeAt)
	closeText := lines[closeLine]
	closeCol := closeAt - (strings.LastIndex(string(content[:closeAt]), "\n") + 1)

	if closeLine > openLine && isBlank(closeText[:closeCol]) {
		indent := indentOf(closeText) + "    "
		for i := closeLine - 1; i > openLine; i-- {
			if !isBlank(lines[i]) {
				indent = indentOf(lines[i])
				break
			}
		}
		ensureComma(lines, openLine+1, closeLine)
		return joinLines(insertLine(lines, closeLine, indent+entry+",")), true, false
	}

	// Reflow: one element per line, then append.
	base := indentOf(lines[openLine])
	elems := splitTopLevel(string(content[open+1 : closeAt]))
	elems = append(elems, entry)

	var b strings.Builder
	b.Write(content[:open+1])
	b.WriteString("\n")
	for _, e := range elems {
		b.WriteString(base + "    " + e + ",\n")
	}
	b.WriteString(base)
	b.Write(content[closeAt:])
	return []byte(b.String()), true, true
}
