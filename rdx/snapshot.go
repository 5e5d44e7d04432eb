package rdx

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"wayfare/models"
)

// Planner snapshots are a best-effort fallback cache, never the source of
// truth. One JSON array per user under a fixed key.

const snapshotTTL = 24 * time.Hour

func snapshotKey(userID string) string {
	return "planner:snapshot:" + userID
}

// SavePlannerSnapshot replaces the user's cached planner list.
func SavePlannerSnapshot(ctx context.Context, userID string, planners []models.Planner) {
	data, err := json.Marshal(planners)
	if err != nil {
		log.Println("SavePlannerSnapshot marshal error:", err)
		return
	}
	if err := Conn.Set(ctx, snapshotKey(userID), data, snapshotTTL).Err(); err != nil {
		log.Println("SavePlannerSnapshot set error:", err)
	}
}

// LoadPlannerSnapshot reads the cached list; returns nil when absent or
// unreadable.
func LoadPlannerSnapshot(ctx context.Context, userID string) []models.Planner {
	data, err := Conn.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var planners []models.Planner
	if err := json.Unmarshal(data, &planners); err != nil {
		log.Println("LoadPlannerSnapshot unmarshal error:", err)
		return nil
	}
	return planners
}

// DropPlannerSnapshot removes the cached list, e.g. after a delete.
func DropPlannerSnapshot(ctx context.Context, userID string) {
	if err := Conn.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		log.Println("DropPlannerSnapshot del error:", err)
	}
}
