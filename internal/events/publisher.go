// Package events exports activity records to an external topic. The
// export is fire-and-forget observability; room logic never depends on it.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/watchsync/server/internal/domain"
)

type Publisher interface {
	PublishActivity(rec domain.ActivityRecord)
	Close() error
}

// Nop is the publisher used when no brokers are configured.
type Nop struct{}

func (Nop) PublishActivity(domain.ActivityRecord) {}
func (Nop) Close() error                          { return nil }

type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishActivity writes asynchronously so dispatch never waits on the
// broker. Failures are logged and dropped.
func (k *Kafka) PublishActivity(rec domain.ActivityRecord) {
	b, err := json.Marshal(rec)
	if err != nil {
		log.Error().Err(err).Str("module", "events").Msg("marshal activity")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		msg := kafka.Message{
			Key:   []byte(rec.RoomCode),
			Value: b,
		}
		if err := k.writer.WriteMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("module", "events").Str("room", string(rec.RoomCode)).Msg("publish activity")
		}
	}()
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
