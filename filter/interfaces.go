package filter

import (
	"context"

	"github.com/s0up4200/transistor/transistor"
)

// Filter defines the basic interface for resource filters
type Filter interface {
	// Evaluate checks if a resource matches the filter criteria
	Evaluate(resource transistor.Resource) (bool, error)
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates filters against resources
type Evaluator interface {
	// Evaluate returns the matching resources in their original order
	Evaluate(ctx context.Context, filter CompiledFilter, resources []transistor.Resource) ([]transistor.Resource, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
