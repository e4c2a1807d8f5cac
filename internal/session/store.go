// Package session persists carts across requests, keyed by an opaque
// session ID carried in a cookie. A cart loaded from the store is
// validated, not trusted: corrupt or inconsistent data is discarded and
// replaced with a fresh empty cart.
//
// Concurrent requests for the same session are last-write-wins on the
// session key; the cart logic itself never sees shared mutable state.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"store-service/internal/models"
	"store-service/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Store loads and saves the per-session cart
type Store interface {
	// Load returns the cart for the session, or a fresh empty cart when
	// the session has none or the stored data is unusable.
	Load(ctx context.Context, sid string) (*models.Cart, error)
	// Save persists the cart and refreshes the session TTL
	Save(ctx context.Context, sid string, cart *models.Cart) error
	// Clear drops the session's cart
	Clear(ctx context.Context, sid string) error
}

// RedisStore is the redis-backed session store
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a session store and verifies connectivity
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{
		rdb:    rdb,
		ttl:    ttl,
		logger: util.GetLogger(),
	}, nil
}

// Close closes the redis connection
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}

// Load implements Store
func (s *RedisStore) Load(ctx context.Context, sid string) (*models.Cart, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sid)).Bytes()
	if err == redis.Nil {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sid, err)
	}

	cart, err := DecodeCart(data)
	if err != nil {
		util.SessionLoadFailures.WithLabelValues("decode").Inc()
		s.logger.Warn("Discarding unreadable session cart",
			zap.String("sid", sid),
			zap.Error(err))
		return models.NewCart(), nil
	}

	return cart, nil
}

// Save implements Store
func (s *RedisStore) Save(ctx context.Context, sid string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(sid), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sid, err)
	}
	return nil
}

// Clear implements Store
func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}

// DecodeCart deserializes a persisted cart and checks that its derived
// totals match its lines. Stale or tampered session data fails here
// instead of flowing into the request.
func DecodeCart(data []byte) (*models.Cart, error) {
	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	if !cart.Consistent() {
		return nil, fmt.Errorf("cart totals do not match lines")
	}
	return &cart, nil
}
