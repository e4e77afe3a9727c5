package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// EventChannel is the redis pub/sub channel carrying petition events to
// every running instance.
const EventChannel = "petition:events"

// Event is a live petition update fanned out to websocket subscribers.
type Event struct {
	Type           string `json:"type"`
	SupportCount   int64  `json:"support_count"`
	TestimonialNew bool   `json:"testimonial_new,omitempty"`
}

const (
	EventSignature = "signature"
	EventEdit      = "edit"
)

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, EventChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime subscribes to the event channel and forwards decoded events to
// output until the context ends. Undecodable payloads are skipped.
func (s *SignalService) Realtime(ctx context.Context, output chan<- Event) {

	pubsub := s.rdb.Subscribe(ctx, EventChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}

			select {
			case <-ctx.Done():
				return
			case output <- event:
			}
		}
	}
}
