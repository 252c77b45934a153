package client

import (
	"context"
	"encoding/json"

	"github.com/pointward/backend/pkg/pubsub"
	"github.com/pointward/backend/pkg/xcontext"
)

// Event is a user-facing notification published to kafka. Delivery is
// fire-and-forget: a broker failure never affects the request that raised
// the event.
type Event struct {
	Type     string         `json:"type"`
	UserID   string         `json:"user_id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

const (
	EventPointsCredited      = "points_credited"
	EventWithdrawalCompleted = "withdrawal_completed"
	EventWithdrawalRejected  = "withdrawal_rejected"
	EventMissionReviewed     = "mission_reviewed"
)

type NotificationClient interface {
	Notify(ctx context.Context, event *Event)
}

type notificationClient struct {
	publisher pubsub.Publisher
}

func NewNotificationClient(publisher pubsub.Publisher) *notificationClient {
	return &notificationClient{publisher: publisher}
}

func (c *notificationClient) Notify(ctx context.Context, event *Event) {
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal notification event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.NotificationTopic
	pack := &pubsub.Pack{Key: []byte(event.UserID), Msg: b}
	if err := c.publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish notification event: %v", err)
	}
}
