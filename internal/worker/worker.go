package worker

import (
	"context"
	"encoding/json"

	"tugasku/internal/events"
	"tugasku/internal/repository"
	"tugasku/pkg/logger"
	"tugasku/pkg/models"

	"github.com/segmentio/kafka-go"
)

// Run starts the Kafka consumer: reads record events and appends them to
// the activity table. One consumer per process; scale by running more
// replicas (consumer group shares partitions). No-op when Kafka is not
// configured.
func Run(ctx context.Context) {
	if !events.Enabled() {
		logger.Info(ctx, "Activity worker disabled (no Kafka brokers)")
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  events.Brokers(),
		Topic:    events.Topic(),
		GroupID:  "activity-recorder",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	store := repository.NewActivityStore()
	logger.Info(ctx, "Activity worker started", "topic", events.Topic())
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, store, msg.Value); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid poison pill blocking the partition
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

func handleMessage(ctx context.Context, store *repository.ActivityStore, payload []byte) error {
	var ev models.RecordEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	if ev.Entity == "" || ev.Action == "" {
		return nil
	}
	return store.Record(ctx, &models.Activity{
		DeviceID:  ev.DeviceID,
		Entity:    ev.Entity,
		Action:    ev.Action,
		RecordID:  ev.RecordID,
		Title:     ev.Title,
		CreatedAt: ev.OccurredAt,
	})
}
