// Package lifecycle moves modules through their states: absent, created
// (active), paused, and back to absent. It composes the template expander
// and the registry mutator; it has no state of its own beyond what is on
// disk, so every operation can be re-run to converge after a partial
// failure.
package lifecycle
