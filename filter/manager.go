package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/s0up4200/transistor/transistor"
)

// Preset is a named expression loaded from configuration.
type Preset struct {
	Name       string
	Expression string

	filter CompiledFilter
}

// Filter returns the compiled expression.
func (p Preset) Filter() CompiledFilter {
	return p.filter
}

// PresetResult records which resources one preset selected from a response.
// Matched holds "type/id" references in response order.
type PresetResult struct {
	Name       string   `json:"name" yaml:"name"`
	Expression string   `json:"expression" yaml:"expression"`
	Total      int      `json:"total" yaml:"total"`
	Matched    []string `json:"matched" yaml:"matched"`
}

// Manager compiles ad-hoc expressions and holds the configured presets.
// Preset names are case-insensitive; config keys arrive lowercased.
type Manager struct {
	compiler  Compiler
	evaluator *ConcurrentEvaluator

	mu      sync.RWMutex
	presets map[string]Preset
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithEvaluator sets the evaluator used by Apply and Run
func WithEvaluator(evaluator *ConcurrentEvaluator) ManagerOption {
	return func(m *Manager) {
		if evaluator != nil {
			m.evaluator = evaluator
		}
	}
}

// NewManager creates a manager with a cached expr compiler and no presets
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(100)),
		evaluator: NewConcurrentEvaluator(),
		presets:   make(map[string]Preset),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Compile compiles an ad-hoc expression
func (m *Manager) Compile(expression string) (CompiledFilter, error) {
	return m.compiler.Compile(expression)
}

// Load replaces the preset set. Nothing changes unless every expression compiles.
func (m *Manager) Load(presets map[string]string) error {
	loaded := make(map[string]Preset, len(presets))
	for name, expression := range presets {
		compiled, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("preset '%s': %w", name, err)
		}
		key := strings.ToLower(name)
		loaded[key] = Preset{Name: key, Expression: compiled.Expression(), filter: compiled}
	}

	m.mu.Lock()
	m.presets = loaded
	m.mu.Unlock()

	return nil
}

// Preset looks up a preset by name
func (m *Manager) Preset(name string) (Preset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.presets[strings.ToLower(name)]
	return p, ok
}

// Presets returns every preset ordered by name
func (m *Manager) Presets() []Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Preset, 0, len(m.presets))
	for _, name := range slices.Sorted(maps.Keys(m.presets)) {
		out = append(out, m.presets[name])
	}
	return out
}

// Resolve picks the filter for a command. An explicit expression wins over a preset
// name; with neither the filter is nil.
func (m *Manager) Resolve(expression, preset string) (CompiledFilter, error) {
	if expression != "" {
		compiled, err := m.Compile(expression)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return compiled, nil
	}

	if preset != "" {
		p, ok := m.Preset(preset)
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		return p.filter, nil
	}

	return nil, nil
}

// Apply returns the resources matching filter, in their original order
func (m *Manager) Apply(ctx context.Context, filter CompiledFilter, resources []transistor.Resource) ([]transistor.Resource, error) {
	return m.evaluator.Evaluate(ctx, filter, resources)
}

// Run evaluates the named presets, or every preset when names is empty, over the
// same resources. Results follow the order of names, or name order for all presets.
func (m *Manager) Run(ctx context.Context, names []string, resources []transistor.Resource) ([]PresetResult, error) {
	presets, err := m.selectPresets(names)
	if err != nil {
		return nil, err
	}

	filters := make([]CompiledFilter, len(presets))
	for i, p := range presets {
		filters[i] = p.filter
	}

	matches, err := m.evaluator.EvaluateBatch(ctx, filters, resources)
	if err != nil {
		return nil, err
	}

	results := make([]PresetResult, len(presets))
	for i, p := range presets {
		refs := make([]string, 0, len(matches[i]))
		for _, r := range matches[i] {
			refs = append(refs, r.Type+"/"+r.ID)
		}
		results[i] = PresetResult{
			Name:       p.Name,
			Expression: p.Expression,
			Total:      len(resources),
			Matched:    refs,
		}
	}
	return results, nil
}

func (m *Manager) selectPresets(names []string) ([]Preset, error) {
	if len(names) == 0 {
		return m.Presets(), nil
	}

	selected := make([]Preset, 0, len(names))
	for _, name := range names {
		p, ok := m.Preset(name)
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}
