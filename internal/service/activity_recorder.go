package service

import (
	"context"
	"strconv"
	"time"

	"inventory-tracker/internal/domain"
	"inventory-tracker/internal/metrics"
	"inventory-tracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// activityRecorder appends activity entries. Failures are logged and
// counted, never returned: the mutation that triggered the entry has
// already happened.
type activityRecorder struct {
	repo   repository.ActivityRepository
	logger *zap.Logger
	now    func() time.Time
}

func (a *activityRecorder) record(ctx context.Context, userID uuid.UUID, action domain.ActivityAction, itemName, details string, payload *domain.ActivityPayload) {
	entry := &domain.ActivityLogEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		ItemName:  itemName,
		Details:   details,
		Payload:   payload,
		CreatedAt: a.now(),
	}

	if err := a.repo.Append(ctx, entry); err != nil {
		metrics.ActivityFailures.WithLabelValues(string(action)).Inc()
		a.logger.Warn("Failed to record activity",
			zap.String("action", string(action)),
			zap.String("item", itemName),
			zap.Error(err),
		)
		return
	}
	metrics.ActivityEntries.WithLabelValues(string(action)).Inc()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
