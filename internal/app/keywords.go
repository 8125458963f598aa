package app

import (
	"context"

	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/site"
)

// meteredKeywords counts keyword requests by outcome.
type meteredKeywords struct {
	site.KeywordGenerator
	metrics *metrics.Metrics
}

func (m meteredKeywords) OptimizeKeywords(ctx context.Context, content string) ([]string, error) {
	kw, err := m.KeywordGenerator.OptimizeKeywords(ctx, content)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	m.metrics.AIRequest(metrics.FeatureKeywords, outcome)
	return kw, err
}
