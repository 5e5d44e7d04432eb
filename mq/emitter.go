package mq

import (
	"context"
	"encoding/json"
	"log"

	"wayfare/models"
	"wayfare/rdx"
)

const plannerChannel = "planner-events"

// Planner event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// PlannerEvent announces a committed planner mutation. Published after the
// write lands, so subscribers always observe committed state.
type PlannerEvent struct {
	UserID    string          `json:"userId"`
	PlannerID string          `json:"plannerId"`
	Action    string          `json:"action"`
	Planner   *models.Planner `json:"planner,omitempty"`
}

// Emit publishes a planner event to Redis.
func Emit(ctx context.Context, event PlannerEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, plannerChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish event to Redis: %v", err)
	}
}

// Subscribe delivers planner events until ctx is cancelled.
func Subscribe(ctx context.Context, fn func(PlannerEvent)) {
	sub := rdx.Conn.Subscribe(ctx, plannerChannel)
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event PlannerEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("[Subscribe] Failed to parse event: %v", err)
					continue
				}
				fn(event)
			}
		}
	}()
}
