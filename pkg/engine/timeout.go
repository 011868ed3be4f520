package engine

import (
	"fmt"
	"time"

	"github.com/chazu/boxstl/pkg/graph"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	graph  *graph.DesignGraph
	errors []EvalError
	err    error
}

// limit returns the engine's evaluation time limit.
func (e *Engine) limit() time.Duration {
	if e.Timeout <= 0 {
		return EvalTimeout
	}
	return e.Timeout
}

// wait blocks until the evaluation of generation gen reports on ch or the
// time limit passes. A result that arrives after a newer Evaluate call has
// started is discarded.
//
// On timeout the evaluating goroutine keeps running; its buffered send
// lets it exit once the script finishes.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*graph.DesignGraph, []EvalError, error) {
	limit := e.limit()
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.graph, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", limit)
	}
}
