package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLinkExpired is returned for unknown or expired download tokens.
var ErrLinkExpired = errors.New("download link expired")

// Link is what a download token points at.
type Link struct {
	File      string    `json:"file"` // name inside the storage directory
	Name      string    `json:"name"` // name offered to the client
	Size      int64     `json:"size"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LinkStore maps download tokens to stored files for a limited time.
type LinkStore interface {
	Put(ctx context.Context, l Link) (string, error)
	Get(ctx context.Context, token string) (Link, error)
}

type RedisLinkStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewRedisLinkStore(rdb *redis.Client, ttl time.Duration) *RedisLinkStore {
	return &RedisLinkStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func (s *RedisLinkStore) Put(ctx context.Context, l Link) (string, error) {
	token := uuid.NewString()
	l.ExpiresAt = s.now().Add(s.ttl)
	raw, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, "link:"+token, raw, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisLinkStore) Get(ctx context.Context, token string) (Link, error) {
	raw, err := s.rdb.Get(ctx, "link:"+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Link{}, ErrLinkExpired
	}
	if err != nil {
		return Link{}, err
	}
	var l Link
	if err := json.Unmarshal(raw, &l); err != nil {
		return Link{}, err
	}
	return l, nil
}

// MemoryLinkStore is used when no redis is configured.
type MemoryLinkStore struct {
	mu    sync.Mutex
	links map[string]Link
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryLinkStore(ttl time.Duration) *MemoryLinkStore {
	return &MemoryLinkStore{links: map[string]Link{}, ttl: ttl, now: time.Now}
}

func (s *MemoryLinkStore) Put(_ context.Context, l Link) (string, error) {
	token := uuid.NewString()
	l.ExpiresAt = s.now().Add(s.ttl)
	s.mu.Lock()
	s.links[token] = l
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryLinkStore) Get(_ context.Context, token string) (Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[token]
	if !ok {
		return Link{}, ErrLinkExpired
	}
	if !s.now().Before(l.ExpiresAt) {
		delete(s.links, token)
		return Link{}, ErrLinkExpired
	}
	return l, nil
}

// Prune forgets expired tokens.
func (s *MemoryLinkStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now, n := s.now(), 0
	for t, l := range s.links {
		if !now.Before(l.ExpiresAt) {
			delete(s.links, t)
			n++
		}
	}
	return n
}
