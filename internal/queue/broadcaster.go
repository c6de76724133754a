package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/hospital-scheduler/internal/models"
)

// Broadcaster publishes committed queue snapshots on redis pub/sub so
// waiting-room screens can subscribe instead of polling. The database
// row stays the source of truth; a nil client turns publishing off and
// publish failures are logged, never surfaced.
type Broadcaster struct {
	rdb *redis.Client
}

func NewBroadcaster(rdb *redis.Client) *Broadcaster {
	return &Broadcaster{rdb: rdb}
}

func Channel(sessionID uint) string {
	return fmt.Sprintf("session:%d:queue", sessionID)
}

func (b *Broadcaster) Publish(ctx context.Context, q *models.SessionQueue) {
	if b == nil || b.rdb == nil || q == nil {
		return
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return
	}

	if err := b.rdb.Publish(ctx, Channel(q.SessionID), payload).Err(); err != nil {
		log.Println("queue broadcast error:", err)
	}
}
