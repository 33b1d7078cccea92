package checks

import (
	"regexp"

	"github.com/iacgate/iacgate/internal/classify"
)

// Live-looking credentials in an env file. Distinct from the generic
// detectors: an env file holding live keys must additionally never reach
// version control, which is what the message stresses.
var reEnvLiveCredential = regexp.MustCompile(`AKIA[0-9A-Z]{16}|ghp_[A-Za-z0-9]{20,}|github_pat_[A-Za-z0-9_]{20,}|(sk|rk)_live_[A-Za-z0-9]{10,}`)

var envfileChecks = []Check{
	{
		ID:       "ENV_LIVE_CREDENTIAL",
		Category: classify.EnvFile,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reEnvLiveCredential.MatchString(t.Content)
		},
		Message: "live credential in an env file; rotate it and make sure the file is never committed",
	},
	{
		ID:       "GITIGNORE_NO_ENV",
		Category: classify.EnvFile,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			if t.Repo == nil || !t.Repo.HasGitignore {
				return false
			}
			return !t.Repo.GitignoreCovers(".env")
		},
		Message: ".gitignore does not exclude .env*; local credentials can end up committed",
	},
}
