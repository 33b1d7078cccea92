// Package checks defines the static library of security and best-practice
// checks applied to infrastructure files.
//
// Checks are data, not per-file-type code paths: each is a Check value
// binding an artifact category, a detection predicate and a message. Adding
// a check means appending to a category table; the engine, classifier and
// responder never change. Registration order is fixed, so finding order is
// stable across runs.
//
// Detection operates on raw file text and path metadata by pattern
// matching. That is by scope, not accident: swapping a predicate for a real
// parser (HCL AST, YAML tree) changes only that Check.
package checks

import (
	"github.com/iacgate/iacgate/internal/classify"
	"github.com/iacgate/iacgate/internal/repoctx"
)

// Severity grades a finding. Critical findings surface as blocking-toned
// system messages; warnings as advisory context. Only the pre-write
// deny-list actually blocks a write.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Target is the unit of analysis handed to a detection predicate: the file
// path, its content (possibly empty for a not-yet-written file) and the
// surrounding repository context.
type Target struct {
	Path    string
	Content string
	Repo    *repoctx.Context
}

// Check is an immutable rule definition.
type Check struct {
	// ID is the unique stable identifier, e.g. TF_HARDCODED_SECRET.
	ID string
	// Category selects which classified files this check applies to.
	// classify.Any checks run on every file.
	Category classify.Category
	Severity Severity
	// Detect reports whether the check matches the target. It must be a
	// pure function of the target; filesystem access goes through
	// Target.Repo, which fails open.
	Detect func(t Target) bool
	// Message is the human-readable explanation attached to a finding.
	Message string
}

// Finding is one instance of a check matching a target.
type Finding struct {
	CheckID  string            `json:"check_id"`
	Category classify.Category `json:"category"`
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
}

// registry holds every check in registration order. Loaded once at startup,
// read-many afterwards.
var registry = buildRegistry()

func buildRegistry() []Check {
	var all []Check
	all = append(all, terraformChecks...)
	all = append(all, tfvarsChecks...)
	all = append(all, kubernetesChecks...)
	all = append(all, dockerfileChecks...)
	all = append(all, composeChecks...)
	all = append(all, ciChecks...)
	all = append(all, ansibleChecks...)
	all = append(all, envfileChecks...)
	all = append(all, shellChecks...)
	all = append(all, genericChecks...)
	return all
}

// All returns every registered check in registration order. Callers must
// not mutate the returned slice.
func All() []Check {
	return registry
}

// ByID returns the check with the given ID, if registered.
func ByID(id string) (Check, bool) {
	for _, c := range registry {
		if c.ID == id {
			return c, true
		}
	}
	return Check{}, false
}
