// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

//nolint:errcheck
package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/toeirei/avail/internal/clipboard"
	"github.com/toeirei/avail/internal/config"
	"github.com/toeirei/avail/internal/core"
	"github.com/toeirei/avail/internal/logging"
)

// setupTestEnv isolates config discovery, pins the clock to Monday
// 2024-01-15 08:00 EST and swaps the clipboard for an in-memory sink.
func setupTestEnv(t *testing.T) *clipboard.Memory {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Chdir(dir)

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	prevClock, prevSink := clock, clipboardSink
	clock = core.FixedClock(time.Date(2024, time.January, 15, 8, 0, 0, 0, loc))
	sink := &clipboard.Memory{}
	clipboardSink = sink
	t.Cleanup(func() {
		clock, clipboardSink = prevClock, prevSink
		logging.SetOutput(os.Stderr)
		logging.SetVerbose(false)
	})
	return sink
}

// writeTestConfig writes a config that reads busy events from a YAML file
// and caches in memory. extra is appended verbatim.
func writeTestConfig(t *testing.T, events string, extra string) string {
	t.Helper()
	dir := t.TempDir()
	busy := filepath.Join(dir, "busy.yaml")
	if err := os.WriteFile(busy, []byte("events:\n"+events), 0o600); err != nil {
		t.Fatalf("write events: %v", err)
	}
	cfg := fmt.Sprintf(`default_timezone: EST
quiet_mode: true
language: en
slot_minutes: 15
fetch_timeout: 5
work_hours:
  start: 9
  end: 17
google:
  enabled: false
outlook:
  enabled: false
file:
  enabled: true
  path: %s
cache:
  enabled: true
  backend: memory
  ttl: 60
%s`, busy, extra)
	path := filepath.Join(dir, "avail.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const meeting = `  - start: 2024-01-15T10:00:00-05:00
    end: 2024-01-15T11:00:00-05:00
`

// executeCommand runs a fresh root command with the given arguments and
// returns what it wrote to stdout and stderr.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReport_DefaultMode(t *testing.T) {
	sink := setupTestEnv(t)
	cfg := writeTestConfig(t, meeting, "")

	out, _, err := executeCommand(t, nil, "--config", cfg, "1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	want := "Mo - 12:00 AM - 10:00 AM // 11:00 AM - 12:00 AM"
	if strings.TrimSpace(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
	if sink.Text() != want {
		t.Fatalf("clipboard holds %q", sink.Text())
	}
}

func TestReport_Professional(t *testing.T) {
	setupTestEnv(t)
	cfg := writeTestConfig(t, meeting, "")

	out, _, err := executeCommand(t, nil, "--config", cfg, "-p", "1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if want := "Mo - 9:00 AM - 10:00 AM // 11:00 AM - 5:00 PM"; strings.TrimSpace(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestReport_PacificTime(t *testing.T) {
	setupTestEnv(t)
	// 10-11 EST is 7-8 PST, before the working day starts.
	cfg := writeTestConfig(t, meeting, "")

	out, _, err := executeCommand(t, nil, "--config", cfg, "--pst", "-p", "1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if want := "Mo - 9:00 AM - 5:00 PM"; strings.TrimSpace(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestReport_WeekendSkippedInProfessionalMode(t *testing.T) {
	setupTestEnv(t)
	cfg := writeTestConfig(t, meeting, "")

	out, _, err := executeCommand(t, nil, "--config", cfg, "-p", "--no-copy", "7")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected five weekday lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[4], "Fr 19th - ") {
		t.Fatalf("expected ordinal labels for a single-month week, got %q", lines[4])
	}
}

func TestReport_FullyBooked(t *testing.T) {
	sink := setupTestEnv(t)
	cfg := writeTestConfig(t, `  - start: 2024-01-15T00:00:00-05:00
    end: 2024-01-16T00:00:00-05:00
`, "")

	out, _, err := executeCommand(t, nil, "--config", cfg, "1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if strings.TrimSpace(out) != "No available slots found." {
		t.Fatalf("unexpected output %q", out)
	}
	if sink.Writes() != 0 {
		t.Fatalf("nothing should be copied for an empty result")
	}
}

func TestReport_NoCopy(t *testing.T) {
	sink := setupTestEnv(t)
	cfg := writeTestConfig(t, meeting, "")
	if _, _, err := executeCommand(t, nil, "--config", cfg, "--no-copy"); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if sink.Writes() != 0 {
		t.Fatalf("--no-copy must not touch the clipboard")
	}
}

func TestReport_ArgumentErrors(t *testing.T) {
	setupTestEnv(t)
	cfg := writeTestConfig(t, meeting, "")

	cases := []struct {
		args []string
		want string
	}{
		{[]string{"--config", cfg, "--pst", "--est"}, "Cannot specify both"},
		{[]string{"--config", cfg, "0"}, "positive integer"},
		{[]string{"--config", cfg, "soon"}, "positive integer"},
		{[]string{"--config", cfg, "--tz", "Mars/Olympus"}, "timezone"},
	}
	for _, tc := range cases {
		_, _, err := executeCommand(t, nil, tc.args...)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("args %v: expected error containing %q, got %v", tc.args, tc.want, err)
		}
	}
}

func TestReport_SourceFailureIsWarning(t *testing.T) {
	setupTestEnv(t)
	cfg := writeTestConfig(t, meeting, "")
	// Re-enable google without credentials; it must not break the report.
	data, _ := os.ReadFile(cfg)
	data = bytes.Replace(data, []byte("google:\n  enabled: false"), []byte("google:\n  enabled: true\n  credentials_file: /nonexistent/creds.json"), 1)
	if err := os.WriteFile(cfg, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, stderr, err := executeCommand(t, nil, "--config", cfg, "-p", "1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(out, "Mo - 9:00 AM - 10:00 AM") {
		t.Fatalf("healthy sources should still be used, got %q", out)
	}
	if strings.Contains(stderr, "Source google failed") {
		t.Fatalf("quiet mode should hide source errors, got %q", stderr)
	}

	_, stderr, err = executeCommand(t, nil, "--config", cfg, "-v", "-p", "1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(stderr, "Source google failed") {
		t.Fatalf("verbose mode should report the failed source, got %q", stderr)
	}
	if !strings.Contains(stderr, "Using EST timezone") {
		t.Fatalf("verbose mode should print the timezone banner, got %q", stderr)
	}
}

func TestReport_DroppedEventReportedInVerbose(t *testing.T) {
	setupTestEnv(t)
	cfg := writeTestConfig(t, meeting+`  - start: 2024-01-15T14:00:00-05:00
    end: 2024-01-15T13:00:00-05:00
`, "")

	out, stderr, err := executeCommand(t, nil, "--config", cfg, "-v", "-p", "1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if want := "Mo - 9:00 AM - 10:00 AM // 11:00 AM - 5:00 PM"; strings.TrimSpace(out) != want {
		t.Fatalf("inverted event must be ignored, got %q", out)
	}
	if !strings.Contains(stderr, "Dropped malformed event") {
		t.Fatalf("expected dropped-event warning, got %q", stderr)
	}
}

func TestReport_ShowEmptyDays(t *testing.T) {
	setupTestEnv(t)
	cfg := writeTestConfig(t, `  - start: 2024-01-15T00:00:00-05:00
    end: 2024-01-16T00:00:00-05:00
`, "show_empty_days: true\n")

	out, _, err := executeCommand(t, nil, "--config", cfg, "-p", "2")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	want := "Mo - No availability\nTu - 9:00 AM - 5:00 PM"
	if strings.TrimSpace(out) != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	setupTestEnv(t)
	path, err := config.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no config before first run")
	}
	out, _, err := executeCommand(t, nil, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if !strings.Contains(out, "default_timezone: EST") {
		t.Fatalf("config show output missing defaults: %q", out)
	}
}

func TestVersionCmd(t *testing.T) {
	setupTestEnv(t)
	out, _, err := executeCommand(t, nil, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "version: ") || !strings.Contains(out, "commit: ") {
		t.Fatalf("unexpected version output %q", out)
	}
}
