package specsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/logx"
)

// ChainResolver опрашивает несколько источников параллельно и сливает ответы.
// Параметр принадлежит первому источнику, который его описал.
type ChainResolver struct {
	resolvers []Resolver
}

func NewChainResolver(resolvers ...Resolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

func (c *ChainResolver) Resolve(ctx context.Context, identity entity.EquipmentIdentity) (entity.SpecificationSet, error) {
	sets := make([]entity.SpecificationSet, len(c.resolvers))
	errs := make([]error, len(c.resolvers))

	var g errgroup.Group

	for i, r := range c.resolvers {
		g.Go(func() error {
			set, err := r.Resolve(ctx, identity)
			if err != nil && !domain.HasCode(err, errcodes.SpecNotFound) {
				errs[i] = fmt.Errorf("resolver %d: %w", i, err)
				return nil
			}

			sets[i] = set

			return nil
		})
	}

	_ = g.Wait()

	failed := lo.CountBy(errs, func(err error) bool { return err != nil })
	if failed > 0 && failed == len(c.resolvers) {
		return entity.SpecificationSet{}, errors.Join(errs...)
	}

	for _, err := range errs {
		if err != nil {
			logger(ctx).Warn("specification source failed", slog.String("identity", identity.String()), logx.Error(err))
		}
	}

	return Merge(sets...), nil
}

// Merge сливает наборы по приоритету. Записи параметра, уже описанного
// более ранним набором, отбрасываются. Источники перечисляются по порядку,
// только если что-то добавили.
func Merge(sets ...entity.SpecificationSet) entity.SpecificationSet {
	var (
		merged  entity.SpecificationSet
		covered []value.ParameterKey
	)

	for _, set := range sets {
		var taken []value.ParameterKey

		for _, entry := range set.Entries {
			key := value.NewParameterKey(entry.Parameter)
			if lo.SomeBy(covered, key.Equal) {
				continue
			}

			merged.Entries = append(merged.Entries, entry)
			taken = append(taken, key)
		}

		if len(taken) > 0 {
			merged.Sources = append(merged.Sources, set.Sources...)
		}

		covered = append(covered, taken...)
	}

	merged.Sources = lo.Uniq(merged.Sources)
	if len(merged.Sources) == 0 {
		merged.Sources = nil
	}

	return merged
}
