package repository

import (
	"context"
	"fmt"

	"SentinelFeed/internal/domain/models"
	drepo "SentinelFeed/internal/domain/repository"
	pkgkafka "SentinelFeed/pkg/kafka"
)

type alertPublisher interface {
	PublishBatch(ctx context.Context, messages []pkgkafka.Message) error
	Close() error
}

// KafkaAlertSink publishes every new alert, keyed by product so each product
// keeps its order within a partition.
type KafkaAlertSink struct {
	pub  alertPublisher
	seen *seenWindow
}

func NewKafkaAlertSink(pub alertPublisher) *KafkaAlertSink {
	return &KafkaAlertSink{pub: pub, seen: newSeenWindow(defaultSeenWindow)}
}

func (s *KafkaAlertSink) Name() string { return "kafka" }

func (s *KafkaAlertSink) Consume(ctx context.Context, ev models.FeedEvent) error {
	fresh := s.seen.unseen(ev.NewAlerts)
	if len(fresh) == 0 {
		return nil
	}

	msgs := make([]pkgkafka.Message, len(fresh))
	for i, a := range fresh {
		msgs[i] = pkgkafka.Message{
			Key:     []byte(a.Product),
			Value:   newAlertRecord(a, ev.Snapshot),
			Headers: map[string]string{"mode": string(ev.Snapshot.Mode)},
		}
	}
	if err := s.pub.PublishBatch(ctx, msgs); err != nil {
		return fmt.Errorf("publish alerts: %w", err)
	}
	s.seen.mark(fresh)
	return nil
}

func (s *KafkaAlertSink) Close() error {
	if s.pub != nil {
		return s.pub.Close()
	}
	return nil
}

var _ drepo.FeedSink = (*KafkaAlertSink)(nil)
