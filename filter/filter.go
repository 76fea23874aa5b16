// Package filter selects JSON:API resources with expr-lang expressions.
//
// An expression sees one resource at a time through ID, Type, Attributes and
// Relationships, plus attr(name) as a shorthand for an attribute lookup:
//
//	Type == "episode" and attr("status") == "published"
//	daysSince(attr("published_at")) < 30
//	hasText(attr("title"), "interview")
package filter

import (
	"context"

	"github.com/s0up4200/transistor/transistor"
)

var (
	defaultCompiler  = NewExprCompiler(WithCache(100))
	defaultEvaluator = NewConcurrentEvaluator()
)

// CompileFilter compiles an expression with the shared, cached compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Apply returns the resources matching filter, in their original order
func Apply(ctx context.Context, filter CompiledFilter, resources []transistor.Resource) ([]transistor.Resource, error) {
	return defaultEvaluator.Evaluate(ctx, filter, resources)
}
