package prompts

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/checkfox/leadintel/internal/models"
)

// Definition describes a prompt template and the slots it consumes
type Definition struct {
	Purpose  models.Purpose
	System   string
	Template string
	Slots    []string
}

// Prompt is a resolved prompt ready to be sent to the completion service
type Prompt struct {
	Purpose models.Purpose
	System  string
	Text    string
}

type entry struct {
	def   Definition
	tmpl  *template.Template
	slots map[string]bool
}

// Registry holds prompt templates keyed by purpose.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[models.Purpose]*entry
}

// NewRegistry creates a registry preloaded with the built-in templates
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, def := range Defaults() {
		if err := r.Register(def); err != nil {
			panic(fmt.Sprintf("invalid built-in prompt %s: %v", def.Purpose, err))
		}
	}
	return r
}

// NewEmptyRegistry creates a registry without any template
func NewEmptyRegistry() *Registry {
	return &Registry{entries: make(map[models.Purpose]*entry)}
}

// Register adds or replaces the template for a purpose
func (r *Registry) Register(def Definition) error {
	e, err := compile(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[def.Purpose] = e
	return nil
}

// Resolve renders the prompt for purpose. A non-empty override is used
// verbatim and bypasses template resolution entirely; otherwise slots must
// match the declared slot set exactly.
func (r *Registry) Resolve(purpose models.Purpose, slots map[string]string, override string) (Prompt, error) {
	r.mu.RLock()
	e, ok := r.entries[purpose]
	r.mu.RUnlock()

	if override != "" {
		system := DefaultSystem
		if ok && e.def.System != "" {
			system = e.def.System
		}
		return Prompt{Purpose: purpose, System: system, Text: override}, nil
	}

	if !ok {
		return Prompt{}, models.NewUnknownPurposeError(purpose)
	}

	var missing, unexpected []string
	for _, name := range e.def.Slots {
		if _, supplied := slots[name]; !supplied {
			missing = append(missing, name)
		}
	}
	for name := range slots {
		if !e.slots[name] {
			unexpected = append(unexpected, name)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		sort.Strings(unexpected)
		return Prompt{}, models.NewTemplateBindingError(purpose, missing, unexpected, nil)
	}

	var sb strings.Builder
	if err := e.tmpl.Execute(&sb, slots); err != nil {
		return Prompt{}, models.NewTemplateBindingError(purpose, nil, nil, err)
	}

	system := e.def.System
	if system == "" {
		system = DefaultSystem
	}
	return Prompt{Purpose: purpose, System: system, Text: sb.String()}, nil
}

// Definition returns a copy of the definition registered for purpose
func (r *Registry) Definition(purpose models.Purpose) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[purpose]
	if !ok {
		return Definition{}, false
	}
	def := e.def
	def.Slots = append([]string(nil), e.def.Slots...)
	return def, true
}

// Purposes lists the registered purposes in sorted order
func (r *Registry) Purposes() []models.Purpose {
	r.mu.RLock()
	defer r.mu.RUnlock()

	purposes := make([]models.Purpose, 0, len(r.entries))
	for p := range r.entries {
		purposes = append(purposes, p)
	}
	sort.Slice(purposes, func(i, j int) bool { return purposes[i] < purposes[j] })
	return purposes
}

// compile parses a definition and checks that the template only references
// declared slots
func compile(def Definition) (*entry, error) {
	if strings.TrimSpace(string(def.Purpose)) == "" {
		return nil, models.NewValidationError("purpose", "", "must not be empty")
	}
	if strings.TrimSpace(def.Template) == "" {
		return nil, models.NewValidationError("template", string(def.Purpose), "must not be empty")
	}

	declared := make(map[string]bool, len(def.Slots))
	slots := make([]string, 0, len(def.Slots))
	for _, name := range def.Slots {
		name = strings.TrimSpace(name)
		if name == "" || declared[name] {
			continue
		}
		declared[name] = true
		slots = append(slots, name)
	}

	tmpl, err := template.New(string(def.Purpose)).Option("missingkey=error").Parse(def.Template)
	if err != nil {
		return nil, models.NewTemplateBindingError(def.Purpose, nil, nil, err)
	}

	probe := make(map[string]string, len(slots))
	for _, name := range slots {
		probe[name] = ""
	}
	if err := tmpl.Execute(io.Discard, probe); err != nil {
		return nil, models.NewTemplateBindingError(def.Purpose, nil, nil, err)
	}

	def.Slots = slots
	return &entry{def: def, tmpl: tmpl, slots: declared}, nil
}
