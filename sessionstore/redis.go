// Package sessionstore provides client.SessionProvider implementations. The
// dashboard's auth layer owns session creation; these providers only read
// what it stored.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/ledgerline/client"
)

// sessionPayload is the JSON blob written to Redis for each signed-in user.
type sessionPayload struct {
	Token string `json:"token"`
	Exp   int64  `json:"exp"`
}

// Redis reads dashboard sessions from a shared Redis instance.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis connects to Redis and verifies the connection with a short ping.
func NewRedis(ctx context.Context, addr, sessionKey string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("sessionstore: ping: %w", err)
	}

	return NewRedisWithClient(rdb, sessionKey), nil
}

// NewRedisWithClient wraps an existing Redis connection.
func NewRedisWithClient(rdb *redis.Client, sessionKey string) *Redis {
	return &Redis{client: rdb, key: redisKey(sessionKey)}
}

func redisKey(id string) string {
	return "session:" + id
}

// Session implements client.SessionProvider. A missing key means no session,
// not an error.
func (r *Redis) Session(ctx context.Context) (*client.Session, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("sessionstore: get: %w", err)
	}

	var stored sessionPayload
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("sessionstore: decode session: %w", err)
	}
	if stored.Token == "" {
		return nil, nil
	}

	return &client.Session{
		Token:     stored.Token,
		ExpiresAt: time.Unix(stored.Exp, 0),
	}, nil
}

// Static hands out a fixed session. Useful for CLI runs and tests.
type Static struct {
	Token     string
	ExpiresAt time.Time
}

// Session implements client.SessionProvider.
func (s Static) Session(ctx context.Context) (*client.Session, error) {
	if s.Token == "" {
		return nil, nil
	}
	return &client.Session{Token: s.Token, ExpiresAt: s.ExpiresAt}, nil
}
