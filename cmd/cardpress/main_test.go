package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestModesCommandListsAllModes(t *testing.T) {
	output, err := executeCommand(t, "modes")
	if err != nil {
		t.Fatalf("modes: %v", err)
	}
	for _, mode := range []string{"fronts", "interleaved-all", "interleaved-custom", "duplex", "backs"} {
		if !strings.Contains(output, mode) {
			t.Fatalf("modes output missing %q:\n%s", mode, output)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("output does not mention target path:\n%s", output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	output, err := executeCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(output, "showing defaults") {
		t.Fatalf("expected defaults notice:\n%s", output)
	}
	if !strings.Contains(output, "pixel_budget") {
		t.Fatalf("expected rendered config keys:\n%s", output)
	}
}

func TestJobsShowUnknownJob(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := executeCommand(t, "jobs", "show", "42"); err == nil {
		t.Fatal("expected error for unknown job id")
	}
	if _, err := executeCommand(t, "jobs", "show", "not-a-number"); err == nil {
		t.Fatal("expected error for malformed job id")
	}
}

func TestExportRequiresDeckFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := executeCommand(t, "export"); err == nil {
		t.Fatal("expected required-flag error for missing --deck")
	}
}

func TestRootShowsHelp(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	output, err := executeCommand(t)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if !strings.Contains(output, "export") || !strings.Contains(output, "jobs") {
		t.Fatalf("help output missing subcommands:\n%s", output)
	}
}
