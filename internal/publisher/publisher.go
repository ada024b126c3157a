package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"temp_compliance/internal/models"
)

// Publisher forwards compliance events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e models.ComplianceEvent) error
	Close() error
}

// streamAdder is the slice of the redis client the publisher needs.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStream publishes each event as one stream entry with a JSON "data"
// field and a unix "timestamp" field.
type RedisStream struct {
	client streamAdder
	closer func() error
	stream string
	maxLen int64
}

type Options struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	MaxLen   int64 // approximate trim; 0 keeps everything
}

// NewRedisStream connects to Redis and verifies the connection.
func NewRedisStream(ctx context.Context, opts Options) (*RedisStream, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return newRedisStream(client, client.Close, opts.Stream, opts.MaxLen), nil
}

func newRedisStream(client streamAdder, closer func() error, stream string, maxLen int64) *RedisStream {
	return &RedisStream{client: client, closer: closer, stream: stream, maxLen: maxLen}
}

func (p *RedisStream) Publish(ctx context.Context, e models.ComplianceEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.EventID, err)
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type":      e.Type,
			"data":      string(data),
			"timestamp": e.OccurredAt.Unix(),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

func (p *RedisStream) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

// Nop drops every event. Used when no stream is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.ComplianceEvent) error { return nil }
func (Nop) Close() error                                          { return nil }

// Open returns a RedisStream when opts.Addr is set, otherwise Nop.
func Open(ctx context.Context, opts Options) (Publisher, error) {
	if opts.Addr == "" {
		return Nop{}, nil
	}
	if opts.Stream == "" {
		opts.Stream = "compliance:events"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return NewRedisStream(pingCtx, opts)
}
