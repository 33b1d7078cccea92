// Package engine runs the check library against a classified file and
// applies the pre-write deny list.
package engine

import (
	"fmt"
	"path/filepath"

	"github.com/iacgate/iacgate/internal/checks"
	"github.com/iacgate/iacgate/internal/classify"
	"github.com/iacgate/iacgate/internal/config"
	"github.com/iacgate/iacgate/internal/logger"
)

// DenyRule pairs a basename glob with the reason reported on block.
type DenyRule struct {
	Glob   string
	Reason string
}

// denyList is the fixed set of paths whose modification is blocked at
// pre-write regardless of content. Post-write never consults it.
var denyList = []DenyRule{
	{"*.tfstate", "Terraform state files must not be edited directly; use terraform state commands"},
	{"*.tfstate.backup", "Terraform state backups must not be edited directly"},
	{"credentials", "credential files must not be written by automation"},
	{"credentials.json", "credential files must not be written by automation"},
	{"service-account*.json", "service account key files must not be written by automation"},
	{"vault_password_file", "vault password files must not be written by automation"},
	{".vault_pass", "vault password files must not be written by automation"},
}

// DenyRules returns the built-in deny list. Callers must not mutate it.
func DenyRules() []DenyRule {
	return denyList
}

// Deny reports whether a write to path is blocked outright, together with
// the human-readable reason. Config-supplied globs extend the built-in
// list. Runs before classification and short-circuits everything else.
func Deny(path string) (string, bool) {
	base := filepath.Base(path)
	for _, rule := range denyList {
		if ok, _ := filepath.Match(rule.Glob, base); ok {
			return rule.Reason, true
		}
	}
	for _, glob := range config.Get().DenyGlobs {
		if ok, err := filepath.Match(glob, base); err == nil && ok {
			return fmt.Sprintf("path matches configured deny pattern %q", glob), true
		}
	}
	return "", false
}

// Run evaluates every applicable check against the target, in registration
// order. A check applies when its category is in the classified set, or
// when it is registered under Any and the set does not include CIPipeline
// (the CI credential check supersedes the generic detectors there).
//
// Identical (target, categories) input yields an identical ordered finding
// list. A panicking detector is logged and skipped; it never aborts the
// remaining checks or the write itself.
func Run(t checks.Target, cats []classify.Category) []checks.Finding {
	cfg := config.Get()
	suppressGeneric := classify.Contains(cats, classify.CIPipeline)

	var findings []checks.Finding
	for _, c := range checks.All() {
		if cfg.Disabled[c.ID] {
			continue
		}
		var applies bool
		if c.Category == classify.Any {
			applies = !suppressGeneric
		} else {
			applies = classify.Contains(cats, c.Category)
		}
		if !applies {
			continue
		}
		if detect(c, t) {
			findings = append(findings, checks.Finding{
				CheckID:  c.ID,
				Category: c.Category,
				Severity: c.Severity,
				Message:  c.Message,
			})
		}
	}
	return findings
}

// detect invokes the check predicate with panic isolation.
func detect(c checks.Check, t checks.Target) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("check panicked, skipping", "check", c.ID, "error", fmt.Sprint(r))
			matched = false
		}
	}()
	return c.Detect(t)
}
