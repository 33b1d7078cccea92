// Package hook implements the protocol adapter between the Claude Code
// hook runtime and the check engine.
//
// It is the only package aware of the runtime's JSON schema. One invocation
// reads the payload once, drives classification and the engine, and
// serializes a decision or advisory payload; everything in between operates
// on plain values.
package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iacgate/iacgate/internal/audit"
	"github.com/iacgate/iacgate/internal/checks"
	"github.com/iacgate/iacgate/internal/classify"
	"github.com/iacgate/iacgate/internal/engine"
	"github.com/iacgate/iacgate/internal/logger"
	"github.com/iacgate/iacgate/internal/repoctx"
	"github.com/tidwall/gjson"
)

// Phase is the moment the hook runs relative to the write.
type Phase string

const (
	// PhasePre runs before the write reaches disk and may block it.
	PhasePre Phase = "PreToolUse"
	// PhasePost runs after the write and only ever reports.
	PhasePost Phase = "PostToolUse"
)

// writeTools are the tool names that trigger processing. Anything else is
// not a file write and produces no output.
var writeTools = map[string]bool{
	"Edit":      true,
	"Write":     true,
	"MultiEdit": true,
}

// Input is the parsed hook payload. Missing or malformed fields are empty
// strings, never errors.
type Input struct {
	ToolName      string
	FilePath      string
	HookEventName string
}

// ParseInput extracts the fields iacgate needs from a raw payload. The
// runtime nests file_path under tool_input; a top-level file_path is
// accepted as a fallback. Unknown fields are ignored, invalid JSON yields
// an empty Input.
func ParseInput(raw []byte) Input {
	if !gjson.ValidBytes(raw) {
		return Input{}
	}
	in := Input{
		ToolName:      gjson.GetBytes(raw, "tool_name").String(),
		HookEventName: gjson.GetBytes(raw, "hook_event_name").String(),
		FilePath:      gjson.GetBytes(raw, "tool_input.file_path").String(),
	}
	if in.FilePath == "" {
		in.FilePath = gjson.GetBytes(raw, "file_path").String()
	}
	return in
}

// ContextItem is one advisory text entry in a pre-write response.
type ContextItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Output is the JSON written to stdout. All fields are optional; a zero
// Output means "nothing to report" and serializes to no output at all.
type Output struct {
	Decision          string        `json:"decision,omitempty"`
	Reason            string        `json:"reason,omitempty"`
	AdditionalContext []ContextItem `json:"additionalContext,omitempty"`
	SystemMessage     string        `json:"systemMessage,omitempty"`
}

func (o Output) empty() bool {
	return o.Decision == "" && o.Reason == "" && len(o.AdditionalContext) == 0 && o.SystemMessage == ""
}

// Result contains the outcome of processing one invocation.
type Result struct {
	Phase      Phase
	ToolName   string
	FilePath   string
	Categories []classify.Category
	Blocked    bool
	Reason     string
	Findings   []checks.Finding
	// Output is the serialized response, empty when there is nothing to
	// report.
	Output string
}

// Process reads one payload from r and runs the pipeline for the given
// phase. The only error it returns is a failed read of r itself; malformed
// payloads, missing files and unreadable content all fail open into an
// empty result.
func Process(r io.Reader, phase Phase) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read hook input: %w", err)
	}
	return ProcessBytes(raw, phase), nil
}

// ProcessBytes runs the pipeline over an already-read payload.
func ProcessBytes(raw []byte, phase Phase) Result {
	startTime := time.Now()

	input := ParseInput(raw)
	result := Result{Phase: phase, ToolName: input.ToolName, FilePath: input.FilePath}

	if !writeTools[input.ToolName] {
		logger.Debug("not a write tool, skipping", "tool", input.ToolName)
		return result
	}
	if input.FilePath == "" {
		logger.Debug("no file path in payload, skipping")
		return result
	}

	// Post-write means the edit already happened; if the file is not on
	// disk now there is nothing to inspect.
	if phase == PhasePost {
		if _, err := os.Stat(input.FilePath); err != nil {
			logger.Debug("target file not on disk, skipping", "path", input.FilePath)
			return result
		}
	}

	// The deny list runs first and short-circuits everything else, but
	// only pre-write: blocking a write that already happened is
	// meaningless.
	if phase == PhasePre {
		if reason, denied := engine.Deny(input.FilePath); denied {
			logger.Debug("write blocked by deny list", "path", input.FilePath)
			result.Blocked = true
			result.Reason = reason
			result.Output = marshal(Output{Decision: "block", Reason: reason})
			logEntry(result, raw, startTime)
			return result
		}
	}

	content := readFileString(input.FilePath)
	result.Categories = classify.File(input.FilePath, content)
	logger.Debug("classified file", "path", input.FilePath, "categories", fmt.Sprint(result.Categories))

	target := checks.Target{
		Path:    input.FilePath,
		Content: content,
		Repo:    repoctx.Build(input.FilePath),
	}
	result.Findings = engine.Run(target, result.Categories)
	logger.Debug("checks complete", "findings", len(result.Findings))

	if len(result.Findings) > 0 {
		result.Output = marshal(formatFindings(phase, input.FilePath, result.Findings))
	}
	logEntry(result, raw, startTime)
	return result
}

// readFileString returns the file content, or empty when the file cannot
// be read (pre-write targets may not exist yet).
func readFileString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// FindingLine renders one finding as a bullet line.
func FindingLine(f checks.Finding) string {
	return fmt.Sprintf("- [%s] %s: %s", f.Category.Label(), f.CheckID, f.Message)
}

// formatFindings builds the non-blocking response. Post-write findings all
// land in systemMessage. Pre-write splits by severity: criticals go to
// systemMessage, warnings become additionalContext items.
func formatFindings(phase Phase, path string, findings []checks.Finding) Output {
	base := filepath.Base(path)

	if phase == PhasePost {
		var b strings.Builder
		fmt.Fprintf(&b, "iacgate found %d issue(s) in %s:\n", len(findings), base)
		for _, f := range findings {
			b.WriteString(FindingLine(f))
			b.WriteByte('\n')
		}
		return Output{SystemMessage: strings.TrimRight(b.String(), "\n")}
	}

	var out Output
	var criticals []string
	for _, f := range findings {
		if f.Severity == checks.SeverityCritical {
			criticals = append(criticals, FindingLine(f))
		} else {
			out.AdditionalContext = append(out.AdditionalContext, ContextItem{
				Type: "text",
				Text: fmt.Sprintf("[%s] %s: %s", f.Category.Label(), f.CheckID, f.Message),
			})
		}
	}
	if len(criticals) > 0 {
		out.SystemMessage = fmt.Sprintf("iacgate: about to edit %s with existing critical issues:\n%s",
			base, strings.Join(criticals, "\n"))
	}
	return out
}

// marshal serializes an output, returning empty for a zero value so the
// caller writes nothing at all.
func marshal(o Output) string {
	if o.empty() {
		return ""
	}
	data, err := json.Marshal(o)
	if err != nil {
		// Serialization failure is an adapter-level problem; surface it
		// on stderr and stay silent on stdout rather than emit garbage.
		logger.Error("failed to marshal hook output", "error", err)
		return ""
	}
	return string(data)
}

// logEntry records the decision in the audit log.
func logEntry(r Result, raw []byte, startTime time.Time) {
	cats := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		cats[i] = string(c)
	}
	audit.Log(audit.Entry{
		DurationMs: float64(time.Since(startTime).Microseconds()) / 1000.0,
		Phase:      string(r.Phase),
		ToolName:   r.ToolName,
		FilePath:   r.FilePath,
		Categories: cats,
		Blocked:    r.Blocked,
		Reason:     r.Reason,
		Findings:   r.Findings,
		Input:      string(raw),
		Output:     r.Output,
	})
}
