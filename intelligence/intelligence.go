// Package intelligence wires the Entity Builder, Semantic Merge, SCA
// Collapse, Lifecycle and Scoring stages together into the single
// entrypoint the worker calls after the Orchestrator's deduplicated
// findings come back.
package intelligence

import (
	"context"
	"time"

	"github.com/deplai/scanctl/core"
	"github.com/deplai/scanctl/entity"
	"github.com/deplai/scanctl/lifecycle"
	"github.com/deplai/scanctl/scoring"
)

// Build runs findings through entity building, semantic merge, SCA
// collapse, lifecycle tracking and scoring, returning the final entities.
func Build(ctx context.Context, store lifecycle.Store, findings []core.Finding) ([]core.FindingEntity, error) {
	if len(findings) == 0 {
		return nil, nil
	}

	entities := entity.Build(findings)
	entities = entity.SemanticMerge(entities)
	entities = entity.CollapseSCA(entities)

	if err := lifecycle.Apply(ctx, store, entities, time.Now().UTC()); err != nil {
		return nil, err
	}

	for i := range entities {
		scoring.Enrich(&entities[i])
		scoring.Score(&entities[i])
	}

	return entities, nil
}
