// Package probe runs scripted weakevent scenarios: a catalog, a set of
// targets, and a list of steps that attach, detach, drop targets, force
// collection and raise events.
package probe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Op names a scenario step.
type Op string

const (
	OpAttach Op = "attach"
	OpDetach Op = "detach"
	OpDrop   Op = "drop"
	OpGC     Op = "gc"
	OpRaise  Op = "raise"
	OpStats  Op = "stats"
)

// Scenario is the file format read by Load.
type Scenario struct {
	Name    string       `json:"name" yaml:"name" toml:"name"`
	Events  []string     `json:"events" yaml:"events" toml:"events"`
	Targets []TargetSpec `json:"targets" yaml:"targets" toml:"targets"`
	Steps   []Step       `json:"steps" yaml:"steps" toml:"steps"`
}

// TargetSpec declares a target. Fail makes its Notify return an error with
// that text; Panic makes it panic instead.
type TargetSpec struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Fail  string `json:"fail" yaml:"fail" toml:"fail"`
	Panic bool   `json:"panic" yaml:"panic" toml:"panic"`
}

// Step is one scenario action.
type Step struct {
	Op     Op     `json:"op" yaml:"op" toml:"op"`
	Event  string `json:"event" yaml:"event" toml:"event"`
	Target string `json:"target" yaml:"target" toml:"target"`
}

var (
	errNoEvents  = errors.New("scenario declares no events")
	errEmptyPath = errors.New("empty scenario path")
)

// Load reads a scenario file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Scenario, error) {
	var sc Scenario
	if path == "" {
		return sc, errEmptyPath
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("read scenario: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &sc)
	case ".json":
		err = json.Unmarshal(b, &sc)
	case ".toml":
		err = toml.Unmarshal(b, &sc)
	default:
		return sc, fmt.Errorf("unsupported scenario extension: %s", ext)
	}
	if err != nil {
		return sc, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return sc, sc.Validate()
}

// Validate checks that every step names a known op and every target it
// references is declared.
func (sc Scenario) Validate() error {
	if len(sc.Events) == 0 {
		return errNoEvents
	}
	declared := make(map[string]struct{}, len(sc.Targets))
	for _, t := range sc.Targets {
		if t.Name == "" {
			return errors.New("target with empty name")
		}
		if _, dup := declared[t.Name]; dup {
			return fmt.Errorf("target %q declared twice", t.Name)
		}
		declared[t.Name] = struct{}{}
	}
	for i, st := range sc.Steps {
		switch st.Op {
		case OpAttach, OpDetach, OpDrop:
			if _, ok := declared[st.Target]; !ok {
				return fmt.Errorf("step %d (%s): unknown target %q", i+1, st.Op, st.Target)
			}
		case OpRaise:
			if st.Event == "" {
				return fmt.Errorf("step %d (raise): missing event", i+1)
			}
		case OpGC, OpStats:
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
	}
	return nil
}
