package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/transistor/transistor"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of concurrent evaluations
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the list size below which evaluation stays sequential
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator evaluates filters across resources with bounded concurrency
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the resources matching filter, in their original order.
// The first evaluation error aborts the run.
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, resources []transistor.Resource) ([]transistor.Resource, error) {
	if len(resources) == 0 {
		return []transistor.Resource{}, nil
	}

	// Small lists are not worth the goroutines
	if len(resources) < e.batchSize {
		return e.evaluateSequential(ctx, filter, resources)
	}

	return e.evaluateConcurrent(ctx, filter, resources)
}

// EvaluateBatch evaluates several filters against the same resources.
// The i-th result holds the matches of the i-th filter.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters []CompiledFilter, resources []transistor.Resource) ([][]transistor.Resource, error) {
	results := make([][]transistor.Resource, len(filters))
	for i, filter := range filters {
		matches, err := e.Evaluate(ctx, filter, resources)
		if err != nil {
			return nil, err
		}
		results[i] = matches
	}
	return results, nil
}

func (e *ConcurrentEvaluator) evaluateSequential(ctx context.Context, filter CompiledFilter, resources []transistor.Resource) ([]transistor.Resource, error) {
	matches := make([]transistor.Resource, 0, len(resources))
	for _, resource := range resources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := filter.Evaluate(resource)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, resource)
		}
	}
	return matches, nil
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, resources []transistor.Resource) ([]transistor.Resource, error) {
	matched := make([]bool, len(resources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range resources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := filter.Evaluate(resources[i])
			if err != nil {
				return err
			}
			matched[i] = ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]transistor.Resource, 0, len(resources))
	for i, ok := range matched {
		if ok {
			matches = append(matches, resources[i])
		}
	}
	return matches, nil
}
