package registry

import (
	"regexp"
	"strings"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// SeederFile is the host's root database seeder.
const SeederFile = "database/seeders/DatabaseSeeder.php"

const seederIndent = "        "

var runAnchor = regexp.MustCompile(`function\s+run\s*\([^)]*\)[^{]*\{`)

// Seeder edits the root DatabaseSeeder so run() calls each module's seeder.
type Seeder struct{}

// Name implements Registry.
func (Seeder) Name() string { return "seeder" }

// File implements Registry.
func (Seeder) File() string { return SeederFile }

// SeederCall is the statement added to run() for n, without indentation.
func SeederCall(n module.Name) string {
	return `$this->call(\` + n.Identifier + `\Seeders\DatabaseSeeder::class);`
}

// normalizeCall drops whitespace and the leading namespace separator so
// hand-edited spacing still matches.
func normalizeCall(s string) string {
	s = strings.Join(strings.Fields(s), "")
	return strings.Replace(s, `(\`, "(", 1)
}

func ownsCall(n module.Name) func(string) bool {
	want := normalizeCall(SeederCall(n))
	return func(l string) bool { return normalizeCall(l) == want }
}

// Add inserts the call before the closing brace of run().
func (Seeder) Add(content []byte, n module.Name) (Edit, error) {
	lines := splitLines(content)
	owns := ownsCall(n)
	for _, l := range lines {
		if owns(l) {
			return Edit{Content: content}, nil
		}
	}

	loc := runAnchor.FindIndex(content)
	if loc == nil {
		return Edit{}, &AnchorError{File: SeederFile, Anchor: "run() method"}
	}
	closeAt := matchBracket(content, loc[1]-1)
	if closeAt < 0 {
		return Edit{}, &AnchorError{File: SeederFile, Anchor: "end of run() method"}
	}

	openLine := lineIndexAt(content, loc[1]-1)
	closeLine := lineIndexAt(content, closeAt)
	if closeLine == openLine {
		// run() { } on one line: open it up.
		l := lines[closeLine]
		col := closeAt - (strings.LastIndex(string(content[:closeAt]), "\n") + 1)
		head := strings.TrimRight(l[:col], " \t")
		tail := indentOf(l) + l[col:]
		out := append([]string{}, lines[:closeLine]...)
		out = append(out, head, seederIndent+SeederCall(n), tail)
		out = append(out, lines[closeLine+1:]...)
		return Edit{Content: joinLines(out)}, nil
	}
	return Edit{Content: joinLines(insertLine(lines, closeLine, seederIndent+SeederCall(n)))}, nil
}

// Remove deletes the call line.
func (Seeder) Remove(content []byte, n module.Name) (Edit, error) {
	lines, dropped := dropLines(splitLines(content), ownsCall(n))
	if dropped == 0 {
		return Edit{Content: content}, nil
	}
	return Edit{Content: joinLines(lines)}, nil
}
