package checks

import (
	"regexp"
	"strings"

	"github.com/iacgate/iacgate/internal/classify"
)

var (
	// Credential shapes that must never appear in a pipeline definition.
	// This check supersedes the generic detectors for CI files so the same
	// token is not reported twice.
	reCICredential = regexp.MustCompile(`ghp_[A-Za-z0-9]{20,}|gho_[A-Za-z0-9]{20,}|github_pat_[A-Za-z0-9_]{20,}|glpat-[A-Za-z0-9_\-]{20}|AKIA[0-9A-Z]{16}`)

	// Action pinned to a mutable ref or a bare major version. A full
	// commit SHA passes; so does an exact semver tag.
	reCIUnpinnedAction = regexp.MustCompile(`(?m)^\s*-?\s*uses:\s*[^\s@]+@(main|master|latest|v\d+)\s*$`)

	reCISecretEcho = regexp.MustCompile(`(?m)(echo|print)[^\n]*\$\{\{\s*secrets\.`)
	reCIWriteAll   = regexp.MustCompile(`permissions:\s*write-all`)

	// Top-level permissions key (column zero) in a workflow file.
	reCITopPermissions = regexp.MustCompile(`(?m)^permissions:`)
)

var ciChecks = []Check{
	{
		ID:       "CI_LEAKED_CREDENTIAL",
		Category: classify.CIPipeline,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reCICredential.MatchString(t.Content)
		},
		Message: "credential material (access key or token) committed in a pipeline file; rotate it now",
	},
	{
		ID:       "CI_UNPINNED_ACTION",
		Category: classify.CIPipeline,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reCIUnpinnedAction.MatchString(t.Content)
		},
		Message: "action pinned to a mutable ref; pin to a full commit SHA to prevent supply-chain swaps",
	},
	{
		ID:       "CI_SECRET_ECHO",
		Category: classify.CIPipeline,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reCISecretEcho.MatchString(t.Content)
		},
		Message: "secret reference passed to echo/print; it may end up in the build log",
	},
	{
		ID:       "CI_WRITE_ALL_PERMISSIONS",
		Category: classify.CIPipeline,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return reCIWriteAll.MatchString(t.Content)
		},
		Message: "workflow grants permissions: write-all; request only the scopes each job needs",
	},
	{
		ID:       "CI_NO_PERMISSIONS",
		Category: classify.CIPipeline,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return classify.IsGitHubWorkflow(t.Path) && t.Content != "" &&
				!reCITopPermissions.MatchString(t.Content)
		},
		Message: "workflow has no top-level permissions: key; the default token grant is broad",
	},
	{
		ID:       "CI_NO_TIMEOUT",
		Category: classify.CIPipeline,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return classify.IsGitHubWorkflow(t.Path) && t.Content != "" &&
				!strings.Contains(t.Content, "timeout-minutes:")
		},
		Message: "no timeout-minutes: on any job; hung jobs burn runner minutes until the 6h default",
	},
}
