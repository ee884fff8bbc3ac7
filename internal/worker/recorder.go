package worker

import (
	"context"
	"encoding/json"
	"time"

	"flightwatch/internal/logging"
	"flightwatch/internal/models"
	"flightwatch/internal/repositories/snapshots"
)

// SnapshotRecorder appends price observations. A snapshot is written once
// per evaluated alert per cycle, whatever the notification outcome; a write
// failure is logged and must not abort the rest of the evaluation.
type SnapshotRecorder struct {
	snapshots snapshots.Repository
	logger    logging.Logger
}

func NewSnapshotRecorder(repo snapshots.Repository, logger logging.Logger) *SnapshotRecorder {
	return &SnapshotRecorder{snapshots: repo, logger: logger}
}

// Record persists one observation. priceCents is nil when the cycle found
// nothing; details carries the winning offer or the no-result marker.
func (r *SnapshotRecorder) Record(ctx context.Context, alertID int64, priceCents *int64, details json.RawMessage, foundAt time.Time) error {
	_, err := r.snapshots.Insert(ctx, &models.Snapshot{
		AlertID:    alertID,
		PriceCents: priceCents,
		FoundAt:    foundAt,
		Details:    details,
	})
	if err != nil {
		r.logger.Error(ctx, "snapshot write failed", "alert_id", alertID, "error", err)
		return err
	}
	return nil
}
