// Package profile loads conversion profiles: YAML documents naming the
// CIF entries each command consumes and produces. Profiles are checked
// against an embedded schema before use, so a typo in a field name
// fails loading instead of silently dropping entries.
package profile

import (
	"os"

	"gopkg.in/yaml.v3"
)

// IOSpec names the entries one side of a command works with.
type IOSpec struct {
	RequiredEntries  []string `yaml:"required_entries"`
	OptionalEntries  []string `yaml:"optional_entries"`
	CustomCategories []string `yaml:"custom_categories"`
	MergeSU          bool     `yaml:"merge_su"`
}

// Command is one named conversion with its input and output entry sets.
type Command struct {
	Name      string `yaml:"name"`
	CIFInput  IOSpec `yaml:"cif_input"`
	CIFOutput IOSpec `yaml:"cif_output"`
}

// Profile is a set of command entry requirements.
type Profile struct {
	Commands []Command `yaml:"commands"`
}

// Command returns the command with the given name.
func (p *Profile) Command(name string) (Command, bool) {
	for _, c := range p.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewUnreadable(path, err)
	}
	return Parse(data)
}

// Parse validates profile text against the schema and decodes it.
func Parse(data []byte) (*Profile, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewUnreadable("profile", err)
	}
	if errs := validateSchema(raw); len(errs) > 0 {
		return nil, errs[0]
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, NewUnreadable("profile", err)
	}
	return &p, nil
}
