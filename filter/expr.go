package filter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/transistor/transistor"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// Check cache if enabled
	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	compileEnv := maps.Clone(c.helperFuncs)
	addResourceFields(compileEnv, transistor.Resource{})

	program, err := expr.Compile(expression,
		expr.Env(compileEnv),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	// Cache if enabled
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate runs the filter against one resource
func (f *exprFilter) Evaluate(resource transistor.Resource) (bool, error) {
	env := make(map[string]any, len(f.helpers)+5)
	maps.Copy(env, f.helpers)
	addResourceFields(env, resource)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, f.evaluationError(resource, "failed to run expression", err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, f.evaluationError(resource, fmt.Sprintf("expression returned %T, not bool", result), nil)
	}
	return matched, nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func (f *exprFilter) evaluationError(resource transistor.Resource, reason string, err error) error {
	return &EvaluationError{
		Expression:   f.expression,
		ResourceType: resource.Type,
		ResourceID:   resource.ID,
		Reason:       reason,
		Err:          err,
	}
}

// addResourceFields exposes a resource to expressions
func addResourceFields(env map[string]any, resource transistor.Resource) {
	attributes := resource.Attributes
	if attributes == nil {
		attributes = map[string]any{}
	}
	relationships := resource.Relationships
	if relationships == nil {
		relationships = map[string]any{}
	}

	env["ID"] = resource.ID
	env["Type"] = resource.Type
	env["Attributes"] = attributes
	env["Relationships"] = relationships
	env["attr"] = func(name string) any {
		return attributes[name]
	}
}

// createHelperFunctions creates the helper functions shared by every evaluation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	// Date helpers
	funcs["daysSince"] = func(v any) int {
		t, ok := toTime(v)
		if !ok {
			return -1
		}
		return int(time.Since(t).Hours() / 24)
	}
	funcs["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	funcs["parseDate"] = func(v any) time.Time {
		t, _ := toTime(v)
		return t
	}
	// Case-insensitive substring match; the contains, startsWith and endsWith
	// operators and the lower and upper builtins cover the rest.
	funcs["hasText"] = func(str, substr any) bool {
		return strings.Contains(strings.ToLower(toString(str)), strings.ToLower(toString(substr)))
	}

	return funcs
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toTime accepts a time.Time or a date string as sent by the API
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
