package dresser

import (
	"context"
	"fmt"
)

// defaultLookCount is how many looks one recommendation call attempts
const defaultLookCount = 3

// defaultBudget is the ceiling used when the quiz carries no usable budget
const defaultBudget = 10000

// Engine assembles outfit recommendations from a catalog snapshot and a
// shopper's quiz answers. It holds no mutable state: every call is a
// synchronous single pass over the provided catalog.
type Engine struct {
	// Looks is the number of looks attempted per call
	Looks int
}

func NewEngine() *Engine {
	return &Engine{Looks: defaultLookCount}
}

// Recommend produces up to e.Looks coherent looks, each within budget.
// Too few eligible products is not an error: the result is simply
// shorter, down to empty. A provider failure is surfaced as
// ErrUpstreamUnavailable and nothing is guessed in its place.
func (e *Engine) Recommend(ctx context.Context, provider CatalogProvider, ans QuizAnswers) ([]Look, error) {
	products, err := provider.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog read failed: %v", ErrUpstreamUnavailable, err)
	}

	candidates := filterCatalog(products, ans.Gender)
	if len(candidates) == 0 {
		return []Look{}, nil
	}

	buckets := bucketByRole(candidates)

	budget := float64(ans.Budget)
	if budget <= 0 {
		budget = defaultBudget
	}

	attempts := e.Looks
	if attempts <= 0 {
		attempts = defaultLookCount
	}

	return composeLooks(buckets, ans, budget, attempts), nil
}
