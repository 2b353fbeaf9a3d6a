// Package catalog enumerates the board and vehicle build targets that the
// firmware tree itself advertises.
package catalog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func debugLog(format string, args ...interface{}) {
	if os.Getenv("APDEV_DEBUG") == "1" {
		fmt.Printf("[DEBUG:CATALOG] "+format+"\n", args...)
	}
}

// Entry is one board the build system can configure, with the vehicle
// targets it supports and the option defaults the tree suggests.
type Entry struct {
	Board            string   `json:"configure"`
	Targets          []string `json:"targets"`
	ConfigureOptions string   `json:"configureOptions"`
	BuildOptions     string   `json:"buildOptions"`
}

// Lister produces the target catalog for one workspace.
type Lister struct {
	Workspace string
	Python    string // resolved interpreter; "" falls back to "python3"

	// runCommand is swappable for tests.
	runCommand func(ctx context.Context, dir, python string) ([]byte, error)
}

// NewLister creates a Lister for the workspace.
func NewLister(workspace, python string) *Lister {
	return &Lister{
		Workspace:  workspace,
		Python:     python,
		runCommand: runGenerateTasklist,
	}
}

// List invokes the tree's own "generate_tasklist" command and parses its
// first stdout line. Any failure (missing waf, non-zero exit, bad JSON)
// yields an empty catalog and a logged diagnostic, never an error.
func (l *Lister) List(ctx context.Context) []Entry {
	python := l.Python
	if python == "" {
		python = "python3"
	}
	out, err := l.runCommand(ctx, l.Workspace, python)
	if err != nil {
		debugLog("generate_tasklist failed: %v", err)
		return nil
	}
	entries, err := ParseTasklist(out)
	if err != nil {
		debugLog("unparsable tasklist output: %v", err)
		return nil
	}
	return entries
}

// ParseTasklist decodes the first line of generate_tasklist output.
func ParseTasklist(output []byte) ([]Entry, error) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	if !scanner.Scan() {
		return nil, fmt.Errorf("empty tasklist output")
	}
	line := strings.TrimSpace(scanner.Text())
	var entries []Entry
	if err := json.Unmarshal([]byte(line), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode tasklist: %w", err)
	}
	return entries, nil
}

// Suggestion is a board/target pair not yet covered by a persisted
// configuration, named by the board-target convention.
type Suggestion struct {
	Name   string
	Board  string
	Target string
}

// Suggestions cross-checks the catalog against existing configuration names
// and returns the pairs that have no configuration yet.
func Suggestions(entries []Entry, existing map[string]bool) []Suggestion {
	var out []Suggestion
	for _, entry := range entries {
		for _, target := range entry.Targets {
			name := entry.Board + "-" + target
			if existing[name] {
				continue
			}
			out = append(out, Suggestion{Name: name, Board: entry.Board, Target: target})
		}
	}
	return out
}

func runGenerateTasklist(ctx context.Context, dir, python string) ([]byte, error) {
	waf := filepath.Join(dir, "waf")
	cmd := exec.CommandContext(ctx, python, waf, "generate_tasklist")
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s waf generate_tasklist: %w (%s)", python, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
