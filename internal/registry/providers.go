package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hotswap-labs/hotswap/internal/module"
)

// ProvidersFile is the host's bootstrap provider list.
const ProvidersFile = "bootstrap/providers.php"

const providerIndent = "    "

// ProviderState is the state of a module's entry in the provider list.
type ProviderState int

// Provider entry states.
const (
	ProviderAbsent ProviderState = iota
	ProviderActive
	ProviderPaused
)

func (s ProviderState) String() string {
	switch s {
	case ProviderActive:
		return "active"
	case ProviderPaused:
		return "paused"
	default:
		return "absent"
	}
}

// Providers edits bootstrap/providers.php. A module is active when its
// provider line is present and paused when the line is commented out.
type Providers struct{}

// Name implements Registry.
func (Providers) Name() string { return "providers" }

// File implements Registry.
func (Providers) File() string { return ProvidersFile }

// ProviderEntry is the provider list element for n, without indentation.
func ProviderEntry(n module.Name) string {
	return n.Identifier + `\App\Providers\AppServiceProvider::class,`
}

type providerPatterns struct {
	active *regexp.Regexp
	paused *regexp.Regexp
	any    *regexp.Regexp
}

// patternsFor builds line matchers for n. The optional leading backslash is
// the only thing allowed between the indentation (or comment marker) and
// the identifier, so removing "Shop" never touches "MyShop".
func patternsFor(n module.Name) providerPatterns {
	q := `\\?` + regexp.QuoteMeta(strings.TrimSuffix(ProviderEntry(n), ",")) + `,?`
	return providerPatterns{
		active: regexp.MustCompile(`^([ \t]*)` + q + `[ \t\r]*$`),
		paused: regexp.MustCompile(`^([ \t]*)//[ \t]*(` + q + `)([ \t\r]*)$`),
		any:    regexp.MustCompile(`^[ \t]*(?://[ \t]*)?` + q),
	}
}

// State reports whether n is active, paused or absent in content.
func (Providers) State(content []byte, n module.Name) ProviderState {
	p := patternsFor(n)
	state := ProviderAbsent
	for _, l := range splitLines(content) {
		switch {
		case p.active.MatchString(l):
			return ProviderActive
		case p.paused.MatchString(l):
			state = ProviderPaused
		}
	}
	return state
}

// Add inserts the provider line before the closing "];" of the list. An
// active or paused entry counts as present.
func (r Providers) Add(content []byte, n module.Name) (Edit, error) {
	if r.State(content, n) != ProviderAbsent {
		return Edit{Content: content}, nil
	}

	lines := splitLines(content)
	closing := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "];") {
			closing = i
			break
		}
	}
	if closing < 0 {
		return Edit{}, &AnchorError{File: ProvidersFile, Anchor: `closing "];"`}
	}

	entry := providerIndent + ProviderEntry(n)
	closeLine := lines[closing]
	if strings.HasPrefix(strings.TrimSpace(closeLine), "];") {
		open := closing - 1
		for open >= 0 && !strings.Contains(lines[open], "[") {
			open--
		}
		ensureComma(lines, open+1, closing)
		return Edit{Content: joinLines(insertLine(lines, closing, entry))}, nil
	}

	// Inline list: break it before the closing bracket.
	at := strings.LastIndex(closeLine, "];")
	head := strings.TrimRight(closeLine[:at], " \t")
	if !strings.HasSuffix(head, "[") && !strings.HasSuffix(head, ",") {
		head += ","
	}
	tail := indentOf(closeLine) + closeLine[at:]
	out := append([]string{}, lines[:closing]...)
	out = append(out, head, entry, tail)
	out = append(out, lines[closing+1:]...)
	return Edit{
		Content:  joinLines(out),
		Warnings: []string{"inline provider list rewritten across lines"},
	}, nil
}

// Remove deletes every line holding the entry, active or paused.
func (Providers) Remove(content []byte, n module.Name) (Edit, error) {
	p := patternsFor(n)
	lines, dropped := dropLines(splitLines(content), p.any.MatchString)
	if dropped == 0 {
		return Edit{Content: content}, nil
	}
	return Edit{Content: joinLines(lines)}, nil
}

// Pause comments out the active entry. Pausing a paused entry changes
// nothing; an absent entry is a *module.NotFoundError.
func (Providers) Pause(content []byte, n module.Name) (Edit, error) {
	p := patternsFor(n)
	lines := splitLines(content)
	found := false
	for i, l := range lines {
		if m := p.active.FindStringSubmatch(l); m != nil {
			lines[i] = m[1] + "//" + l[len(m[1]):]
			found = true
		} else if p.paused.MatchString(l) {
			found = true
		}
	}
	if !found {
		return Edit{}, &module.NotFoundError{Kind: fmt.Sprintf("provider entry for %q", n.Slug), Path: ProvidersFile}
	}
	return Edit{Content: joinLines(lines)}, nil
}

// Resume uncomments the first paused entry, the inverse of Pause. An
// entry that is already active leaves every paused copy alone so the
// provider is never registered twice.
func (Providers) Resume(content []byte, n module.Name) (Edit, error) {
	p := patternsFor(n)
	lines := splitLines(content)
	active, first := false, -1
	for i, l := range lines {
		if p.active.MatchString(l) {
			active = true
		} else if first < 0 && p.paused.MatchString(l) {
			first = i
		}
	}
	if !active && first < 0 {
		return Edit{}, &module.NotFoundError{Kind: fmt.Sprintf("provider entry for %q", n.Slug), Path: ProvidersFile}
	}
	if active {
		return Edit{Content: content}, nil
	}
	m := p.paused.FindStringSubmatch(lines[first])
	lines[first] = m[1] + m[2] + m[3]
	return Edit{Content: joinLines(lines)}, nil
}

// Toggle runs Pause or Resume through the Mutator. Unlike Add and Remove, a
// missing providers file is returned as an error.
func (m *Mutator) Toggle(n module.Name, pause bool) (Step, error) {
	var r Providers
	fn, verb := r.Resume, "resume"
	if pause {
		fn, verb = r.Pause, "pause"
	}
	step, err := m.Apply(r.Name(), r.File(), func(content []byte) (Edit, error) {
		return fn(content, n)
	})
	if err != nil {
		return step, fmt.Errorf("%s %s: %w", verb, n.Slug, err)
	}
	m.logger.Debug("provider entry toggled", "module", n.Slug, "action", verb, "outcome", string(step.Outcome))
	return step, nil
}
