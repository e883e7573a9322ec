package memory

import (
	"context"

	"askdocs/internal/contextutil"
	"askdocs/internal/storage"
)

// Recorder applies the decision engine to exchanges and persists accepted
// facts through a FactStore.
type Recorder struct {
	store storage.FactStore
}

// NewRecorder creates a recorder backed by the given store.
func NewRecorder(store storage.FactStore) *Recorder {
	return &Recorder{store: store}
}

// Remember evaluates the exchange and, when the decision clears the
// confidence threshold, persists the summarized fact. Returns the decision
// and whether a new fact row was actually written (false for duplicates).
func (r *Recorder) Remember(ctx context.Context, userText, assistantText string) (Decision, bool, error) {
	decision := Decide(userText, assistantText)
	if !decision.ShouldWrite || decision.Confidence < writeThreshold {
		return decision, false, nil
	}

	written, err := r.store.Add(ctx, decision.Target, decision.Summary)
	if err != nil {
		return decision, false, err
	}
	if written {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "memory fact recorded",
			"target", decision.Target,
			"summary", decision.Summary,
		)
	}
	return decision, written, nil
}
