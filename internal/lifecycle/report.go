package lifecycle

import (
	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/registry"
)

// Step outcomes that are not registry outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeDeleted     = "deleted"
	OutcomeMissing     = "missing"
	OutcomeRegenerated = "regenerated"
	OutcomeFailed      = "failed"
	OutcomeDisabled    = "disabled"
	OutcomePaused      = "paused"
	OutcomeResumed     = "resumed"
	OutcomeWasPaused   = "already paused"
	OutcomeWasActive   = "already active"
)

// Step is one unit of work in a lifecycle operation.
type Step struct {
	Target   string // "tree", "autoload" or a registry name
	File     string // project-relative path, when there is one
	Outcome  string
	Warnings []string
}

// Report describes what an operation did, step by step.
type Report struct {
	Action string
	Module module.Name
	Path   string // project-relative module directory
	Steps  []Step
}

func (r *Report) add(s Step) { r.Steps = append(r.Steps, s) }

func (r *Report) addRegistry(s registry.Step) {
	r.add(Step{Target: s.Registry, File: s.File, Outcome: string(s.Outcome), Warnings: s.Warnings})
}

// Warnings collects the warnings of every step.
func (r *Report) Warnings() []string {
	var out []string
	for _, s := range r.Steps {
		out = append(out, s.Warnings...)
	}
	return out
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Step returns the step for target, if the operation ran one.
func (r *Report) Step(target string) (Step, bool) {
	for _, s := range r.Steps {
		if s.Target == target {
			return s, true
		}
	}
	return Step{}, false
}
