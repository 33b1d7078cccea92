// iacgate - Claude Code hook that audits infrastructure-as-code file writes
//
// iacgate runs as a PreToolUse/PostToolUse hook for the Edit, Write and
// MultiEdit tools. It classifies the target file (Terraform, Kubernetes,
// Dockerfile, CI pipeline, ...), runs a library of pattern checks for
// security misconfigurations and hardcoded secrets, and either blocks the
// write (state/credential files, pre-write only) or reports findings back
// to the agent as advisory context.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "Edit|Write|MultiEdit",
//	    "hooks": [{"type": "command", "command": "iacgate pre"}]
//	  }],
//	  "PostToolUse": [{
//	    "matcher": "Edit|Write|MultiEdit",
//	    "hooks": [{"type": "command", "command": "iacgate post"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Write", "tool_input": {"file_path": "main.tf"}}' | iacgate pre
package main

import (
	"os"

	"github.com/iacgate/iacgate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
