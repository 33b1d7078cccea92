package checks

import (
	"regexp"
	"strings"

	"github.com/iacgate/iacgate/internal/classify"
)

var (
	reAnsibleConnPassword = regexp.MustCompile(`(?m)^\s*(ansible_become_password|ansible_ssh_pass|ansible_password)\s*[:=]`)
	reAnsibleSecretKey    = regexp.MustCompile(`(?i)^\s*[\w-]*(password|secret|token|api_key)[\w-]*\s*:\s*(.+)$`)
)

// ansibleUnvaultedSecret scans line by line for a secret-looking key with a
// literal value that is not vault-encrypted. Go regexp has no lookahead, so
// the !vault / template exclusions are checked in code.
func ansibleUnvaultedSecret(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		m := reAnsibleSecretKey.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		val := strings.Trim(strings.TrimSpace(m[2]), `"'`)
		if val == "" || strings.HasPrefix(val, "!vault") ||
			strings.HasPrefix(val, "{{") || strings.HasPrefix(val, "#") {
			continue
		}
		return true
	}
	return false
}

var ansibleChecks = []Check{
	{
		ID:       "ANSIBLE_PLAIN_CREDENTIAL",
		Category: classify.Ansible,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reAnsibleConnPassword.MatchString(t.Content)
		},
		Message: "connection password stored as a plain variable; move it into ansible-vault",
	},
	{
		ID:       "ANSIBLE_UNVAULTED_SECRET",
		Category: classify.Ansible,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return ansibleUnvaultedSecret(t.Content)
		},
		Message: "secret-looking variable with a literal value; encrypt it with !vault",
	},
}
