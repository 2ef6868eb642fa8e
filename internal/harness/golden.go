package harness

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is the fixture directory used by RunWithGolden, relative to the
// test's package.
const GoldenDir = "testdata/golden"

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	SessionID    string       `json:"session_id,omitempty"`
	Trace        []TraceEvent `json:"trace"`
}

// MarshalSnapshot serializes the trace of result as indented JSON. Field
// order is fixed and HTML characters are not escaped, so the same trace always
// produces the same bytes.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: name,
		SessionID:    result.SessionID,
		Trace:        result.Trace,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("failed to marshal trace snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, GoldenDir, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against {dir}/{name}.golden.
func AssertGolden(t *testing.T, dir, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// GoldenPath returns the golden file path for a scenario in dir.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, name+".golden")
}

// WriteGolden writes the trace snapshot of result to {dir}/{name}.golden,
// creating dir if needed.
func WriteGolden(dir, name string, result *Result) error {
	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(GoldenPath(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether result matches {dir}/{name}.golden. exists
// is false when there is no golden file to compare against.
func CompareGolden(dir, name string, result *Result) (match, exists bool, err error) {
	want, err := os.ReadFile(GoldenPath(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read golden file: %w", err)
	}

	got, err := MarshalSnapshot(name, result)
	if err != nil {
		return false, true, err
	}
	return bytes.Equal(got, want), true, nil
}
