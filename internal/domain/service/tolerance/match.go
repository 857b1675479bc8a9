package tolerance

import (
	"github.com/samber/lo"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/value"
)

// Match выбирает запись спецификации для точки. Сначала ищется точное
// совпадение параметра, частичное по словам только если точного нет. Среди
// записей, чей диапазон содержит номинал в единице записи, побеждает самый
// узкий, при равенстве первый объявленный.
func Match(point entity.MeasurementPoint, entries []entity.SpecificationEntry) (entity.SpecificationEntry, bool) {
	key := value.NewParameterKey(point.Parameter)

	candidates := candidatesBy(entries, key.Equal)
	if len(candidates) == 0 {
		candidates = candidatesBy(entries, key.Overlaps)
	}

	var (
		best  entity.SpecificationEntry
		found bool
	)

	for _, e := range candidates {
		if !e.AppliesTo(point.Nominal, point.Unit) {
			continue
		}

		if !found || e.RangeWidth() < best.RangeWidth() {
			best, found = e, true
		}
	}

	return best, found
}

func candidatesBy(entries []entity.SpecificationEntry, match func(value.ParameterKey) bool) []entity.SpecificationEntry {
	return lo.Filter(entries, func(e entity.SpecificationEntry, _ int) bool {
		return match(value.NewParameterKey(e.Parameter))
	})
}
