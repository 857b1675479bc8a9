package specsource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"calibration_analyzer/internal/domain/entity"
)

const redisKeyPrefix = "specifications:"

// RedisStore делит кеш наборов между инстансами.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type setDTO struct {
	Sources []string   `json:"sources"`
	Entries []entryDTO `json:"entries"`
}

type entryDTO struct {
	Parameter string              `json:"parameter"`
	Unit      string              `json:"unit,omitempty"`
	Tolerance string              `json:"tolerance"`
	Range     *entity.RangeBounds `json:"range,omitempty"`
	Details   map[string]string   `json:"details,omitempty"`
}

func (s *RedisStore) Get(ctx context.Context, key string) (entity.SpecificationSet, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.SpecificationSet{}, false, nil
	}

	if err != nil {
		return entity.SpecificationSet{}, false, fmt.Errorf("client.Get: %w", err)
	}

	var dto setDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return entity.SpecificationSet{}, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	set := entity.SpecificationSet{
		Sources: dto.Sources,
		Entries: make([]entity.SpecificationEntry, 0, len(dto.Entries)),
	}

	for _, e := range dto.Entries {
		set.Entries = append(set.Entries, entity.SpecificationEntry{
			Parameter: e.Parameter,
			Unit:      e.Unit,
			Tolerance: e.Tolerance,
			Range:     e.Range,
			Details:   e.Details,
		})
	}

	return set, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, set entity.SpecificationSet, ttl time.Duration) error {
	dto := setDTO{
		Sources: set.Sources,
		Entries: make([]entryDTO, 0, len(set.Entries)),
	}

	for _, e := range set.Entries {
		dto.Entries = append(dto.Entries, entryDTO{
			Parameter: e.Parameter,
			Unit:      e.Unit,
			Tolerance: e.Tolerance,
			Range:     e.Range,
			Details:   e.Details,
		})
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}
