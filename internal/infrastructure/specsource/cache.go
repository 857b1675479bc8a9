package specsource

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/pkg/logx"
)

// Store хранит найденные наборы между анализами.
type Store interface {
	Get(ctx context.Context, key string) (entity.SpecificationSet, bool, error)
	Set(ctx context.Context, key string, set entity.SpecificationSet, ttl time.Duration) error
}

// CachingResolver отдаёт повторные запросы из Store. Кешируются только
// непустые наборы, чтобы следующий поиск мог найти спецификации.
type CachingResolver struct {
	next  Resolver
	store Store
	ttl   time.Duration
}

func NewCachingResolver(next Resolver, store Store, ttl time.Duration) *CachingResolver {
	return &CachingResolver{
		next:  next,
		store: store,
		ttl:   ttl,
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, identity entity.EquipmentIdentity) (entity.SpecificationSet, error) {
	key := CacheKey(identity)

	set, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger(ctx).Warn("specification cache read failed", slog.String("key", key), logx.Error(err))
	}

	if ok {
		return set, nil
	}

	set, err = c.next.Resolve(ctx, identity)
	if err != nil {
		return entity.SpecificationSet{}, err
	}

	if set.IsEmpty() {
		return set, nil
	}

	if err := c.store.Set(ctx, key, set, c.ttl); err != nil {
		logger(ctx).Warn("specification cache write failed", slog.String("key", key), logx.Error(err))
	}

	return set, nil
}

// CacheKey: ключ прибора без учёта регистра.
func CacheKey(identity entity.EquipmentIdentity) string {
	parts := []string{identity.Manufacturer, identity.Model, identity.EquipmentType}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.Join(strings.Fields(p), " "))
	}

	return strings.Join(parts, "|")
}
