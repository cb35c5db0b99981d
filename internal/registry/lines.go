package registry

import (
	"strings"
)

// splitLines splits content on "\n". Joining the result with "\n" gives the
// original bytes back, including a trailing newline.
func splitLines(content []byte) []string {
	return strings.Split(string(content), "\n")
}

func joinLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

func insertLine(lines []string, at int, line string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, line)
	return append(out, lines[at:]...)
}

// dropLines returns lines without those matched by drop, and how many
// were dropped.
func dropLines(lines []string, drop func(string) bool) ([]string, int) {
	out := make([]string, 0, len(lines))
	n := 0
	for _, l := range lines {
		if drop(l) {
			n++
			continue
		}
		out = append(out, l)
	}
	return out, n
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isComment(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "//") || strings.HasPrefix(t, "#") ||
		strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "*")
}

// ensureComma appends a comma to the last element line in lines[from:to]
// when it lacks one. Lines ending in an opening bracket and comment lines
// are not elements.
func ensureComma(lines []string, from, to int) {
	for i := to - 1; i >= from; i-- {
		l := lines[i]
		if isBlank(l) || isComment(l) {
			continue
		}
		code := strings.TrimRight(codePart(l), " \t\r")
		switch code[len(code)-1] {
		case ',', '[', '{', '(':
			return
		}
		lines[i] = code + "," + l[len(code):]
		return
	}
}

// codePart cuts a trailing line comment that is not inside a string.
func codePart(line string) string {
	b := []byte(line)
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\'', '"', '`':
			i = skipString(b, i)
		case '/':
			if i+1 < len(b) && b[i+1] == '/' {
				return line[:i]
			}
		}
	}
	return line
}

// lineIndexAt returns the index of the line holding byte offset off.
func lineIndexAt(content []byte, off int) int {
	return strings.Count(string(content[:off]), "\n")
}

// matchBracket returns the offset of the bracket closing the one at open,
// or -1. Quoted strings and comments are skipped, so brackets inside them
// do not count.
func matchBracket(content []byte, open int) int {
	var stack []byte
	closer := map[byte]byte{'(': ')', '[': ']', '{': '}'}

	for i := open; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipString(content, i)
		case c == '/' && i+1 < len(content) && content[i+1] == '/':
			for i < len(content) && content[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(content) && content[i+1] == '*':
			end := strings.Index(string(content[i+2:]), "*/")
			if end < 0 {
				return -1
			}
			i += end + 3
		case c == '(' || c == '[' || c == '{':
			stack = append(stack, closer[c])
		case c == ')' || c == ']' || c == '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

// skipString returns the offset of the quote closing the string opened at
// start, or the last offset when the string never closes.
func skipString(content []byte, start int) int {
	quote := content[start]
	for i := start + 1; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return len(content) - 1
}

// splitTopLevel splits s on commas outside brackets and strings.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\'', '"', '`':
			i = skipString(b, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}
