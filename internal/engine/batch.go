package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/seralys/inciwise/internal/model"
)

// CategorizeAll categorizes every product concurrently with a bounded worker
// pool, preserving input order in the returned results. Per-item failures and
// panics become explicit error results; one bad record never aborts the batch.
// The optional progress callback is invoked once per completed product.
func (e *Engine) CategorizeAll(ctx context.Context, products []model.Product, progress func(done, total int)) []model.Result {
	results := make([]model.Result, len(products))
	if len(products) == 0 {
		return results
	}

	workers := e.config.Workers
	if workers <= 0 {
		workers = DefaultConfig().Workers
	}

	var completed atomic.Int64
	total := len(products)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, product := range products {
		wg.Add(1)
		go func(idx int, product model.Product) {
			defer wg.Done()
			if progress != nil {
				defer func() { progress(int(completed.Add(1)), total) }()
			}

			// Acquire semaphore
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = errorResult(product, ctx.Err())
				return
			}

			results[idx] = e.categorizeItem(ctx, product)
		}(i, product)
	}

	wg.Wait()

	e.flagDisagreements(results)

	return results
}

// categorizeItem categorizes one product, converting errors and panics into
// error results at the batch boundary.
func (e *Engine) categorizeItem(ctx context.Context, product model.Product) (result model.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while categorizing product",
				"brand", product.Brand,
				"title", product.Title,
				"panic", r)
			result = errorResult(product, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := e.Categorize(ctx, product)
	if err != nil {
		slog.Warn("failed to categorize product",
			"brand", product.Brand,
			"title", product.Title,
			"error", err)
		return errorResult(product, err)
	}
	return res
}

// errorResult builds the explicit per-item failure result.
func errorResult(product model.Product, err error) model.Result {
	return model.Result{
		Product:   product,
		Category:  model.CategoryError,
		Reasoning: model.ReasonError,
		Err:       err.Error(),
	}
}

// flagDisagreements recomputes the rule-stage winner for every NLP-decided
// result and flags those where the two signals disagree. Only NLP results are
// checked; title-match results are never flagged.
func (e *Engine) flagDisagreements(results []model.Result) {
	for i := range results {
		if results[i].Reasoning != model.ReasonNLP {
			continue
		}
		if winner := e.ruleWinner(results[i].Analysis); winner != results[i].Category {
			results[i].Flagged = true
			slog.Debug("flagged NLP/rule disagreement",
				"title", results[i].Product.Title,
				"nlp_category", results[i].Category,
				"rule_category", winner)
		}
	}
}
