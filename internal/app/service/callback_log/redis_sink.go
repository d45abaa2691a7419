package callback_log

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"

	"github.com/fatflowers/paytrack/internal/models"
)

// RedisSink mirrors audit entries into a capped redis list, newest at the head.
type RedisSink struct {
	client *goredis.Client
	key    string
	maxLen int64
}

func NewRedisSink(client *goredis.Client, key string, maxLen int64) *RedisSink {
	if client == nil {
		return nil
	}
	if key == "" {
		key = "paytrack:callbacks"
	}
	return &RedisSink{client: client, key: key, maxLen: maxLen}
}

func (r *RedisSink) Push(ctx context.Context, entry *models.PaymentCallbackLog) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 800*time.Millisecond)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, b)
	if r.maxLen > 0 {
		pipe.LTrim(ctx, r.key, 0, r.maxLen-1)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to n entries, newest first.
func (r *RedisSink) Recent(ctx context.Context, n int) ([]models.PaymentCallbackLog, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]models.PaymentCallbackLog, 0, len(raw))
	for _, s := range raw {
		var entry models.PaymentCallbackLog
		if err := json.Unmarshal([]byte(s), &entry); err != nil {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}
