package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/consolemock/console"
)

// Scenario is a scripted session against a mock: expectations declared by a
// test, calls made by the code under test, drain subscriptions and uninstall,
// each with the failure it must or must not raise.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description"`

	// Verbose forwards every intercepted call to the original console.
	Verbose bool `yaml:"verbose,omitempty" json:"verbose,omitempty"`

	// SessionID is the fixed session id for deterministic traces.
	// If empty, defaults to "test-session-default".
	SessionID string `yaml:"session_id,omitempty" json:"session_id,omitempty"`

	// Steps run in order. Each step has exactly one action.
	Steps []Step `yaml:"steps" json:"steps"`

	// Assertions are checked against the trace after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty" json:"assertions,omitempty"`
}

// Step is one action of a scenario.
type Step struct {
	// Expect declares an expectation on the mock.
	Expect *Call `yaml:"expect,omitempty" json:"expect,omitempty"`

	// Emit makes a call through the slot, as the code under test would.
	Emit *Call `yaml:"emit,omitempty" json:"emit,omitempty"`

	// OnceEmpty registers a drain callback. The label identifies it in the
	// trace.
	OnceEmpty string `yaml:"once_empty,omitempty" json:"once_empty,omitempty"`

	// Uninstall ends the session.
	Uninstall *UninstallStep `yaml:"uninstall,omitempty" json:"uninstall,omitempty"`

	// Error is the failure this step must raise: "", "mismatch" or
	// "unreconciled".
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Call is a console call: a severity name and its arguments.
type Call struct {
	Type string `yaml:"type" json:"type"`
	Args []any  `yaml:"args" json:"args"`
}

// UninstallStep configures an uninstall step.
type UninstallStep struct {
	IgnoreChecks bool `yaml:"ignore_checks" json:"ignore_checks"`
}

// Step error kinds.
const (
	ErrorNone         = ""
	ErrorMismatch     = "mismatch"
	ErrorUnreconciled = "unreconciled"
)

// Scenario file extensions understood by LoadScenario.
var scenarioExtensions = []string{".yaml", ".yml", ".cue"}

// action names the single action a step performs.
func (s Step) action() string {
	var actions []string
	if s.Expect != nil {
		actions = append(actions, "expect")
	}
	if s.Emit != nil {
		actions = append(actions, "emit")
	}
	if s.OnceEmpty != "" {
		actions = append(actions, "once_empty")
	}
	if s.Uninstall != nil {
		actions = append(actions, "uninstall")
	}
	return strings.Join(actions, ",")
}

// Severity resolves the call's severity name.
func (c *Call) Severity() (console.Severity, error) {
	return console.ParseSeverity(c.Type)
}

// LoadScenario reads a scenario file. YAML (.yaml, .yml) and CUE (.cue)
// files are accepted; both reject unknown top-level fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		scenario, err = parseYAML(data)
	case ".cue":
		scenario, err = parseCUE(path, data)
	default:
		return nil, fmt.Errorf("unsupported scenario file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

func parseYAML(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

var knownCUEFields = map[string]bool{
	"name":        true,
	"description": true,
	"verbose":     true,
	"session_id":  true,
	"steps":       true,
	"assertions":  true,
}

func parseCUE(path string, data []byte) (*Scenario, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, fmt.Errorf("failed to read CUE fields: %w", err)
	}
	for iter.Next() {
		name := iter.Selector().String()
		if !knownCUEFields[name] {
			return nil, fmt.Errorf("failed to parse CUE: unknown field %q", name)
		}
	}

	var scenario Scenario
	if err := v.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to decode CUE: %w", err)
	}
	return &scenario, nil
}

// ValidateScenario checks that required fields are present and that every
// step is well formed.
func ValidateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch action := step.action(); action {
		case "":
			return fmt.Errorf("steps[%d]: one of expect, emit, once_empty, uninstall is required", i)
		case "expect":
			if err := validateCall(step.Expect); err != nil {
				return fmt.Errorf("steps[%d].expect: %w", i, err)
			}
		case "emit":
			if err := validateCall(step.Emit); err != nil {
				return fmt.Errorf("steps[%d].emit: %w", i, err)
			}
		case "once_empty", "uninstall":
		default:
			return fmt.Errorf("steps[%d]: exactly one action allowed, got %s", i, action)
		}

		switch step.Error {
		case ErrorNone, ErrorMismatch, ErrorUnreconciled:
		default:
			return fmt.Errorf("steps[%d]: unknown error kind %q", i, step.Error)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateCall(c *Call) error {
	if _, err := c.Severity(); err != nil {
		return err
	}
	return nil
}

// FindScenarios lists the scenario files directly inside dir, sorted by
// name. A non-empty filter is a filepath.Match pattern applied to the file
// name without its extension.
func FindScenarios(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isScenarioFile(entry.Name()) {
			continue
		}
		if filter != "" {
			base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			ok, err := filepath.Match(filter, base)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func isScenarioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range scenarioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
