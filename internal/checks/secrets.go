package checks

import (
	"regexp"

	"github.com/iacgate/iacgate/internal/classify"
)

// Generic credential detectors. These run on every file regardless of
// classification, except CI pipeline files, where CI_LEAKED_CREDENTIAL
// supersedes them to avoid duplicate reporting.
var (
	reAWSAccessKey = regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)
	reGitHubToken  = regexp.MustCompile(`\b(ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{20,}\b|github_pat_[A-Za-z0-9_]{20,}`)
	rePrivateKey   = regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)
	reDBConnString = regexp.MustCompile(`(?i)\b(postgres|postgresql|mysql|mongodb(\+srv)?|redis|amqp)://[^\s:@/]+:[^\s@/]+@`)
	reStripeKey    = regexp.MustCompile(`\b(sk|rk)_live_[A-Za-z0-9]{10,}\b`)
)

var genericChecks = []Check{
	{
		ID:       "SECRET_AWS_ACCESS_KEY",
		Category: classify.Any,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reAWSAccessKey.MatchString(t.Content)
		},
		Message: "AWS access key ID in file content; rotate the key",
	},
	{
		ID:       "SECRET_GITHUB_TOKEN",
		Category: classify.Any,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reGitHubToken.MatchString(t.Content)
		},
		Message: "GitHub token in file content; revoke it",
	},
	{
		ID:       "SECRET_PRIVATE_KEY",
		Category: classify.Any,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return rePrivateKey.MatchString(t.Content)
		},
		Message: "PEM private key in file content",
	},
	{
		ID:       "SECRET_DB_URI",
		Category: classify.Any,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reDBConnString.MatchString(t.Content)
		},
		Message: "database connection string embeds a username and password",
	},
	{
		ID:       "SECRET_STRIPE_LIVE_KEY",
		Category: classify.Any,
		Severity: SeverityCritical,
		Detect: func(t Target) bool {
			return reStripeKey.MatchString(t.Content)
		},
		Message: "Stripe live-mode key in file content; roll the key",
	},
}
