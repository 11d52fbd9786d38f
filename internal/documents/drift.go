package documents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/docvault/docvault/internal/common"
)

// ReconcileQueueKey is the Redis list the janitor process consumes drift
// events from
const ReconcileQueueKey = "docvault:reconcile"

// Drift event kinds
const (
	DriftOrphanedBlob  = "orphaned_blob"
	DriftPartialDelete = "partial_delete"
)

// DriftEvent is the structured consistency-drift signal emitted when the two
// stores disagree: a blob with no metadata record, or a record whose blob is
// already gone.
type DriftEvent struct {
	Kind       string    `json:"kind"`
	BlobRef    string    `json:"blob_ref,omitempty"`
	RecordID   string    `json:"record_id,omitempty"`
	Cause      string    `json:"cause"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DriftReporter receives consistency-drift signals. Implementations must not
// fail the operation that reports the drift.
type DriftReporter interface {
	OrphanedBlob(ctx context.Context, blobRef string, cause error)
	PartialDelete(ctx context.Context, recordID uuid.UUID, cause error)
}

// LogDriftReporter records drift events in the structured log only
type LogDriftReporter struct{}

func (LogDriftReporter) OrphanedBlob(ctx context.Context, blobRef string, cause error) {
	log.Warn().
		Str("event", DriftOrphanedBlob).
		Str("blob_ref", blobRef).
		AnErr("cause", cause).
		Msg("blob stored but metadata commit failed; blob needs reconciliation")
}

func (LogDriftReporter) PartialDelete(ctx context.Context, recordID uuid.UUID, cause error) {
	log.Warn().
		Str("event", DriftPartialDelete).
		Str("record_id", recordID.String()).
		AnErr("cause", cause).
		Msg("blob deleted but metadata record remains; record needs reconciliation")
}

// QueueDriftReporter logs drift events and additionally pushes them onto the
// Redis reconciliation queue. A queue failure is logged, never surfaced: the
// log entry remains the signal of record.
type QueueDriftReporter struct {
	Cache *common.Cache
}

// NewQueueDriftReporter creates a reporter backed by the given cache
func NewQueueDriftReporter(cache *common.Cache) *QueueDriftReporter {
	return &QueueDriftReporter{Cache: cache}
}

func (r *QueueDriftReporter) OrphanedBlob(ctx context.Context, blobRef string, cause error) {
	LogDriftReporter{}.OrphanedBlob(ctx, blobRef, cause)
	r.enqueue(ctx, DriftEvent{
		Kind:       DriftOrphanedBlob,
		BlobRef:    blobRef,
		Cause:      cause.Error(),
		OccurredAt: time.Now().UTC(),
	})
}

func (r *QueueDriftReporter) PartialDelete(ctx context.Context, recordID uuid.UUID, cause error) {
	LogDriftReporter{}.PartialDelete(ctx, recordID, cause)
	r.enqueue(ctx, DriftEvent{
		Kind:       DriftPartialDelete,
		RecordID:   recordID.String(),
		Cause:      cause.Error(),
		OccurredAt: time.Now().UTC(),
	})
}

func (r *QueueDriftReporter) enqueue(ctx context.Context, event DriftEvent) {
	if err := r.Cache.PushList(ctx, ReconcileQueueKey, event); err != nil {
		log.Error().Err(err).Str("kind", event.Kind).Msg("failed to enqueue drift event")
	}
}
