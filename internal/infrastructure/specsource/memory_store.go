package specsource

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"calibration_analyzer/internal/domain/entity"
)

// MemoryStore: Store в памяти процесса.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(defaultTTL, cleanupInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (entity.SpecificationSet, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return entity.SpecificationSet{}, false, nil
	}

	set, ok := v.(entity.SpecificationSet)

	return set, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, set entity.SpecificationSet, ttl time.Duration) error {
	s.cache.Set(key, set, ttl)
	return nil
}
