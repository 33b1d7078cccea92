package checks

import (
	"regexp"
	"strings"

	"github.com/iacgate/iacgate/internal/classify"
	"mvdan.cc/sh/v3/syntax"
)

// Destructive infrastructure commands worth flagging when they appear in a
// script being written. Advisory only: content never blocks a write, only
// the deny-listed paths do.
var destructivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^terraform\s+destroy\b`),
	regexp.MustCompile(`^terraform\s+apply\b.*-auto-approve\b`),
	regexp.MustCompile(`^kubectl\s+delete\b.*(\s--all\b|\s-A\b)`),
	regexp.MustCompile(`^aws\s+s3\s+rb\b.*--force\b`),
	regexp.MustCompile(`^gcloud\s+projects\s+delete\b`),
	regexp.MustCompile(`^az\s+group\s+delete\b.*(--yes|-y)\b`),
}

// splitStatements extracts the simple commands from a shell script using a
// real parser, so quoted strings and heredocs do not produce false splits.
func splitStatements(script string) ([]string, error) {
	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(script), "")
	if err != nil {
		return nil, err
	}

	var segments []string
	printer := syntax.NewPrinter()
	syntax.Walk(prog, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok {
			return true
		}
		var buf strings.Builder
		printer.Print(&buf, call)
		if s := strings.TrimSpace(buf.String()); s != "" {
			segments = append(segments, s)
		}
		return true
	})
	return segments, nil
}

// scriptHasDestructiveCommand parses the script and matches each command
// against the destructive table. Scripts the parser rejects fall back to a
// raw line scan rather than going unchecked.
func scriptHasDestructiveCommand(script string) bool {
	segments, err := splitStatements(script)
	if err != nil {
		segments = strings.Split(script, "\n")
		for i, s := range segments {
			segments[i] = strings.TrimSpace(s)
		}
	}
	for _, seg := range segments {
		for _, re := range destructivePatterns {
			if re.MatchString(seg) {
				return true
			}
		}
	}
	return false
}

var shellChecks = []Check{
	{
		ID:       "SH_DESTRUCTIVE_COMMAND",
		Category: classify.ShellScript,
		Severity: SeverityWarning,
		Detect: func(t Target) bool {
			return scriptHasDestructiveCommand(t.Content)
		},
		Message: "script contains a destructive infrastructure command (terraform destroy, kubectl delete --all, ...); double-check before running it",
	},
}
