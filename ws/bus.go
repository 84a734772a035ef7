package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vnkhanh/ai-learning-journal/utils"
)

// RedisBus phát event qua redis pub/sub để mọi instance đều giao được cho client của mình
type RedisBus struct {
	rdb     *goredis.Client
	channel string
}

var (
	busMu     sync.RWMutex
	activeBus *RedisBus
)

func currentBus() *RedisBus {
	busMu.RLock()
	defer busMu.RUnlock()
	return activeBus
}

func NewRedisBus(addr, channel string) (*RedisBus, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if channel == "" {
		channel = "journal-events"
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisBus{rdb: rdb, channel: channel}, nil
}

func (b *RedisBus) Publish(ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Start subscribe channel, chuyển event cho hub local và đặt bus làm bus đang dùng
func (b *RedisBus) Start(ctx context.Context, hub *Hub) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					utils.Log.Warn("bad redis event payload", "error", err)
					continue
				}
				hub.Deliver(ev)
			}
		}
	}()

	busMu.Lock()
	activeBus = b
	busMu.Unlock()
	return nil
}

func (b *RedisBus) Close() error {
	busMu.Lock()
	if activeBus == b {
		activeBus = nil
	}
	busMu.Unlock()
	return b.rdb.Close()
}
