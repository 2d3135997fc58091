// Package catalog holds the role, level and topic sets an interview is
// configured from.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog is the set of selectable roles, levels and topics.
type Catalog struct {
	Roles      []string `yaml:"roles" json:"roles"`
	Levels     []string `yaml:"levels" json:"levels"`
	Topics     []string `yaml:"topics" json:"topics"`
	ChartTopic string   `yaml:"chart_topic" json:"chart_topic"`
}

// Selection is the user's current choice. It is rebuilt from widget state
// on every interaction and never stored.
type Selection struct {
	Role  string `json:"role" form:"role"`
	Level string `json:"level" form:"level"`
	Topic string `json:"topic" form:"topic"`
}

func (s Selection) String() string {
	return fmt.Sprintf("%s - %s - %s", s.Role, s.Level, s.Topic)
}

// SelectionError reports a selection field outside its enumerated set.
type SelectionError struct {
	Field string
	Value string
}

func (e *SelectionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("no %s selected", e.Field)
	}
	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) check() error {
	var errs []error
	for _, set := range []struct {
		name  string
		items []string
	}{
		{"roles", c.Roles},
		{"levels", c.Levels},
		{"topics", c.Topics},
	} {
		if len(set.items) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one entry required", set.name))
			continue
		}
		seen := make(map[string]bool, len(set.items))
		for _, item := range set.items {
			if strings.TrimSpace(item) == "" {
				errs = append(errs, fmt.Errorf("%s: blank entry", set.name))
			}
			if seen[item] {
				errs = append(errs, fmt.Errorf("%s: duplicate entry %q", set.name, item))
			}
			seen[item] = true
		}
	}
	if strings.TrimSpace(c.ChartTopic) == "" {
		errs = append(errs, errors.New("chart_topic: required"))
	} else if slices.Contains(c.Topics, c.ChartTopic) {
		errs = append(errs, fmt.Errorf("chart_topic %q is also listed in topics", c.ChartTopic))
	}
	return errors.Join(errs...)
}

// AllTopics returns the regular topics followed by the chart topic, the
// order selection widgets show them in.
func (c *Catalog) AllTopics() []string {
	out := make([]string, 0, len(c.Topics)+1)
	out = append(out, c.Topics...)
	return append(out, c.ChartTopic)
}

// Validate checks that every field of sel belongs to its set.
func (c *Catalog) Validate(sel Selection) error {
	if !slices.Contains(c.Roles, sel.Role) {
		return &SelectionError{Field: "role", Value: sel.Role}
	}
	if !slices.Contains(c.Levels, sel.Level) {
		return &SelectionError{Field: "level", Value: sel.Level}
	}
	if !slices.Contains(c.AllTopics(), sel.Topic) {
		return &SelectionError{Field: "topic", Value: sel.Topic}
	}
	return nil
}

// IsChartMode reports whether sel selects chart description practice.
func (c *Catalog) IsChartMode(sel Selection) bool {
	return sel.Topic == c.ChartTopic
}

// DefaultSelection returns the first entry of each set.
func (c *Catalog) DefaultSelection() Selection {
	return Selection{Role: c.Roles[0], Level: c.Levels[0], Topic: c.Topics[0]}
}
