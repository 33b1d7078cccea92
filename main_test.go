package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Helper to build the binary once and run it with input, capturing output
func runIacgate(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()

	cmd := exec.Command("go", "build", "-o", "iacgate_test_binary", ".")
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build: %v", err)
	}
	defer os.Remove("iacgate_test_binary")

	cmd = exec.Command("./iacgate_test_binary", append(args, "--no-audit-log")...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), "IACGATE_CONFIG="+t.TempDir())
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		}
	}

	return stdout.String(), exitCode
}

type hookOutput struct {
	Decision      string `json:"decision"`
	Reason        string `json:"reason"`
	SystemMessage string `json:"systemMessage"`
}

func writePayload(t *testing.T, tool, path string) string {
	t.Helper()
	payload := map[string]any{
		"tool_name":  tool,
		"tool_input": map[string]string{"file_path": path},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestIntegrationBlockedWrite(t *testing.T) {
	output, exitCode := runIacgate(t, writePayload(t, "Write", "/work/terraform.tfstate"), "pre")

	if exitCode != 0 {
		t.Errorf("Expected exit 0 for a blocked write, got %d", exitCode)
	}

	var out hookOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		t.Fatalf("Failed to parse output %q: %v", output, err)
	}
	if out.Decision != "block" {
		t.Errorf("Expected decision 'block', got %q", out.Decision)
	}
	if out.Reason == "" {
		t.Error("Expected a block reason")
	}
}

func TestIntegrationPostWriteFindings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Dockerfile")
	if err := os.WriteFile(path, []byte("FROM node:latest\n"), 0644); err != nil {
		t.Fatal(err)
	}

	output, exitCode := runIacgate(t, writePayload(t, "Write", path), "post")

	if exitCode != 0 {
		t.Errorf("Expected exit 0, got %d", exitCode)
	}

	var out hookOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		t.Fatalf("Failed to parse output %q: %v", output, err)
	}
	if out.Decision != "" {
		t.Errorf("Post-write must not decide, got %q", out.Decision)
	}
	if !strings.Contains(out.SystemMessage, "DOCKER_UNPINNED_IMAGE") {
		t.Errorf("Expected findings in systemMessage, got %q", out.SystemMessage)
	}
}

func TestIntegrationNonWriteTool(t *testing.T) {
	output, exitCode := runIacgate(t, writePayload(t, "Bash", "main.tf"), "pre")

	if output != "" {
		t.Errorf("Expected no output for a non-write tool, got %q", output)
	}
	if exitCode != 0 {
		t.Errorf("Expected exit 0, got %d", exitCode)
	}
}

func TestIntegrationInvalidJSON(t *testing.T) {
	output, exitCode := runIacgate(t, "invalid json {{{", "pre")

	if output != "" {
		t.Errorf("Expected no output for invalid JSON, got %q", output)
	}
	if exitCode != 0 {
		t.Errorf("Expected exit 0 for invalid JSON, got %d", exitCode)
	}
}

func TestIntegrationAutoPhase(t *testing.T) {
	// Bare invocation infers the phase from hook_event_name.
	payload := `{"tool_name":"Write","tool_input":{"file_path":"/work/terraform.tfstate"},"hook_event_name":"PreToolUse"}`
	output, exitCode := runIacgate(t, payload)

	if exitCode != 0 {
		t.Errorf("Expected exit 0, got %d", exitCode)
	}

	var out hookOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		t.Fatalf("Failed to parse output %q: %v", output, err)
	}
	if out.Decision != "block" {
		t.Errorf("Expected decision 'block', got %q", out.Decision)
	}
}

func TestIntegrationAutoPhasePost(t *testing.T) {
	// hook_event_name PostToolUse switches the bare invocation to the
	// post-write phase, which reports instead of blocking.
	dir := t.TempDir()
	path := filepath.Join(dir, "terraform.tfstate")
	if err := os.WriteFile(path, []byte(`{"version": 4}`), 0644); err != nil {
		t.Fatal(err)
	}

	payload, err := json.Marshal(map[string]any{
		"tool_name":       "Write",
		"tool_input":      map[string]string{"file_path": path},
		"hook_event_name": "PostToolUse",
	})
	if err != nil {
		t.Fatal(err)
	}

	output, exitCode := runIacgate(t, string(payload))
	if exitCode != 0 {
		t.Errorf("Expected exit 0, got %d", exitCode)
	}
	if strings.Contains(output, `"decision"`) {
		t.Errorf("Post-write must never block, got %q", output)
	}
}
