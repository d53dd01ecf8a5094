package consumer

import (
	"context"
	"encoding/json"

	"go-leave/internal/bootstrap"
	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveReviews membaca event review dari Kafka dan meneruskannya ke
// audit trail. Commit hanya setelah entry tercatat, jadi minimal at-least-once.
func ConsumeLeaveReviews(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_review")
	log.Info("leave review consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave review consumer stopped")
				return
			}
			log.Error("fetch leave review message failed", zap.Error(err))
			continue
		}

		var event events.LeaveReviewedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave reviewed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "LEAVE_REVIEWED",
			Message: "Leave request " + event.Status,
			Meta: map[string]any{
				"request_id":  event.RequestID,
				"user_id":     event.UserID,
				"reviewer_id": event.ReviewerID,
				"status":      event.Status,
				"total_days":  event.TotalDays,
				"occurred_at": event.OccurredAt,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave review message failed", zap.Error(err))
			continue
		}

		log.Info("leave review audited",
			zap.String("request_id", event.RequestID),
			zap.String("status", event.Status),
		)
	}
}
