package subscription

import (
	"context"

	"github.com/studyforge/studyforge/internal/domain/account"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// Recorders fans a transition out to several recorders in order.
type Recorders []account.TransitionRecorder

func (rs Recorders) Record(ctx context.Context, t account.Transition) {
	for _, r := range rs {
		if r != nil {
			r.Record(ctx, t)
		}
	}
}

// LogRecorder writes each transition as one structured audit line.
type LogRecorder struct {
	logger logger.Interface
}

func NewLogRecorder(logger logger.Interface) *LogRecorder {
	return &LogRecorder{logger: logger.Named("subscription.audit")}
}

func (r *LogRecorder) Record(_ context.Context, t account.Transition) {
	r.logger.Infow("subscription transition",
		"account_id", t.AccountID,
		"trigger", t.Trigger,
		"from_tier", t.FromTier,
		"from_status", t.FromStatus,
		"to_tier", t.ToTier,
		"to_status", t.ToStatus,
		"at", t.At,
	)
}
