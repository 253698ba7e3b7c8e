package statussync

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

const observationKeyPrefix = "verification:laststatus:"

type observation struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// RedisObservationStore keeps the last-observed status per landlord in Redis.
type RedisObservationStore struct {
	client *redis.Client
}

func NewRedisObservationStore(client *redis.Client) *RedisObservationStore {
	return &RedisObservationStore{client: client}
}

func (s *RedisObservationStore) LastObserved(ctx context.Context, landlordID string) (string, string, bool, error) {
	data, err := s.client.Get(ctx, observationKeyPrefix+landlordID).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	var obs observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return "", "", false, err
	}
	return obs.Status, obs.Note, true, nil
}

func (s *RedisObservationStore) Record(ctx context.Context, landlordID, status, note string) error {
	data, err := json.Marshal(observation{Status: status, Note: note})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, observationKeyPrefix+landlordID, data, 0).Err()
}
