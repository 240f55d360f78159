package prompts

import (
	"fmt"
	"sort"

	"github.com/checkfox/leadintel/internal/models"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// fileDefinition is one entry under the "prompts" key of a prompts file
type fileDefinition struct {
	System   string   `koanf:"system"`
	Template string   `koanf:"template"`
	Slots    []string `koanf:"slots"`
}

// LoadFile applies template overrides from a YAML file:
//
//	prompts:
//	  lead_analysis:
//	    system: "..."
//	    template: "..."
//	  follow_up_email:
//	    slots: [lead_data]
//	    template: "..."
//
// Existing purposes keep their slots unless the file lists new ones; new
// purposes must declare their slots. Nothing is applied if any entry fails.
func (r *Registry) LoadFile(path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load prompts file %s: %w", path, err)
	}

	var overrides map[string]fileDefinition
	if err := k.UnmarshalWithConf("prompts", &overrides, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("failed to decode prompts file %s: %w", path, err)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	compiled := make(map[models.Purpose]*entry, len(names))
	for _, name := range names {
		purpose := models.Purpose(name)
		override := overrides[name]

		def, exists := r.Definition(purpose)
		if !exists {
			if override.Slots == nil {
				return fmt.Errorf("prompts file %s: new purpose %s must declare its slots", path, name)
			}
			def = Definition{Purpose: purpose}
		}
		if override.System != "" {
			def.System = override.System
		}
		if override.Template != "" {
			def.Template = override.Template
		}
		if override.Slots != nil {
			def.Slots = override.Slots
		}

		e, err := compile(def)
		if err != nil {
			return fmt.Errorf("prompts file %s: %w", path, err)
		}
		compiled[purpose] = e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for purpose, e := range compiled {
		r.entries[purpose] = e
	}
	return nil
}
