package classify

import (
	"context"
	"fmt"

	"marketintel/internal/logger"
	"marketintel/internal/types"
)

// Classifier judges the likely market impact of a single article.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, article types.Article) (types.ImpactVerdict, error)
}

// Chain tries classifiers in order and returns the first verdict.
// With a lexicon classifier at the tail the chain cannot fail in
// practice; the error return exists for context cancellation.
type Chain struct {
	classifiers []Classifier
}

func NewChain(classifiers ...Classifier) *Chain {
	return &Chain{classifiers: classifiers}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Classify(ctx context.Context, article types.Article) (types.ImpactVerdict, error) {
	var lastErr error
	for _, cl := range c.classifiers {
		if err := ctx.Err(); err != nil {
			return types.ImpactVerdict{}, err
		}
		verdict, err := cl.Classify(ctx, article)
		if err != nil {
			logger.Debug(ctx, "Classifier failed, falling through", "classifier", cl.Name(), "error", err)
			lastErr = err
			continue
		}
		return verdict, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no classifiers configured")
	}
	return types.ImpactVerdict{}, fmt.Errorf("all classifiers failed: %w", lastErr)
}
