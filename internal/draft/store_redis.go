package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "verification:draft:"

// RedisStore keeps drafts in Redis with a TTL so abandoned submissions age
// out on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, d *Draft) error {
	if d.LandlordID == "" {
		return errors.New("draft missing landlord id")
	}
	d.SavedAt = time.Now()
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return s.client.Set(ctx, draftKeyPrefix+d.LandlordID, data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, landlordID string) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+landlordID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}

func (s *RedisStore) Clear(ctx context.Context, landlordID string) error {
	return s.client.Del(ctx, draftKeyPrefix+landlordID).Err()
}
