package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tugasku/internal/config"
	"tugasku/pkg/models"
	"tugasku/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Enabled reports whether the change-event stream is configured.
func Enabled() bool {
	return len(config.Get().KafkaBrokers) > 0
}

// EnsureTopic creates the record-events topic with configured partitions
// (idempotent). Call at startup; if it fails the app still runs.
func EnsureTopic(ctx context.Context) {
	cfg := config.Get()
	if !Enabled() {
		return
	}
	conn, err := kafka.Dial("tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

var (
	writer *kafka.Writer
	wOnce  sync.Once
)

// Producer returns the global Kafka writer for record events, or nil when
// the stream is disabled.
func Producer(ctx context.Context) *kafka.Writer {
	wOnce.Do(func() {
		cfg := config.Get()
		if !Enabled() {
			return
		}
		writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.LeastBytes{},
			BatchSize:    100,
			BatchTimeout: 0,
			Async:        true,
			RequiredAcks: kafka.RequireOne,
		}
		logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	})
	return writer
}

// Publish emits a record event. Best-effort: the request path never fails
// because an event could not be published.
func Publish(ctx context.Context, ev *models.RecordEvent) {
	w := Producer(ctx)
	if w == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Debug(ctx, "Marshal record event failed", "error", err)
		return
	}
	// key by device so one device's events stay ordered within a partition
	msg := kafka.Message{
		Key:   []byte(ev.DeviceID),
		Value: payload,
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Debug(ctx, "Publish record event failed", "error", err)
	}
}

// Topic returns the record events topic name.
func Topic() string {
	return config.Get().KafkaTopic
}

// Brokers returns Kafka broker addresses.
func Brokers() []string {
	return config.Get().KafkaBrokers
}
