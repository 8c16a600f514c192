package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"spatialboard/internal/model"
)

// SessionStore keeps per-dashboard-session UI state. Get returns nil (no
// error) for unknown or expired sessions.
type SessionStore interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// sessionTTL bounds how long an idle dashboard session survives.
const sessionTTL = 12 * time.Hour

type redisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (c *redisSessionStore) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+session.ID, data, sessionTTL).Err()
}

func (c *redisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, "session:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *redisSessionStore) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "session:"+id).Err()
}

// memorySessionStore is the single-process fallback used when REDIS_URI is
// not set, and in tests.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string][]byte)}
}

func (c *memorySessionStore) Set(_ context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = data
	return nil
}

func (c *memorySessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	c.mu.RLock()
	data, ok := c.sessions[id]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *memorySessionStore) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}
