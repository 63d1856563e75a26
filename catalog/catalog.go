// Package catalog holds the static reference data shipped with the server:
// US states, interaction scenarios, the emergency message template and the
// sample guides and scripts shown before anything is generated.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var raw []byte

type Scenario struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Icon  string `yaml:"icon" json:"icon"`
}

type SampleGuide struct {
	Title   string `yaml:"title" json:"title"`
	Content string `yaml:"content" json:"content"`
}

type SampleScript struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Content  string `yaml:"content" json:"content"`
	Language string `yaml:"language" json:"language"`
}

type Catalog struct {
	EmergencyTemplate string                    `yaml:"emergency_template" json:"emergency_template"`
	States            []string                  `yaml:"states" json:"states"`
	Scenarios         []Scenario                `yaml:"scenarios" json:"scenarios"`
	SampleGuides      map[string]SampleGuide    `yaml:"sample_guides" json:"sample_guides"`
	SampleScripts     map[string][]SampleScript `yaml:"sample_scripts" json:"sample_scripts"`
}

var (
	once    sync.Once
	current *Catalog
	loadErr error
)

// Parse decodes a catalog document.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.EmergencyTemplate == "" {
		return nil, fmt.Errorf("parse catalog: emergency_template is empty")
	}
	sort.Strings(c.States)
	return &c, nil
}

// Default returns the embedded catalog. It panics if the embedded document
// is broken, which only a bad build can cause.
func Default() *Catalog {
	once.Do(func() {
		current, loadErr = Parse(raw)
	})
	if loadErr != nil {
		panic(loadErr)
	}
	return current
}

// IsState reports whether name is a known US state, ignoring case.
func (c *Catalog) IsState(name string) bool {
	for _, s := range c.States {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// Scripts returns the sample scripts for a scenario in the given language.
// An empty language matches all.
func (c *Catalog) Scripts(scenario, language string) []SampleScript {
	var out []SampleScript
	for _, s := range c.SampleScripts[scenario] {
		if language == "" || s.Language == language {
			out = append(out, s)
		}
	}
	return out
}

// RenderEmergency fills the {location} and {timestamp} placeholders.
func (c *Catalog) RenderEmergency(location, timestamp string) string {
	return strings.NewReplacer("{location}", location, "{timestamp}", timestamp).
		Replace(c.EmergencyTemplate)
}
