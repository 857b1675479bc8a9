// Package specsource: источники спецификаций: статический документ, сервис
// поиска, цепочка из нескольких источников и кеш поверх них.
package specsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"calibration_analyzer/internal/domain/entity"
)

type Resolver interface {
	Resolve(ctx context.Context, identity entity.EquipmentIdentity) (entity.SpecificationSet, error)
}

// StaticResolver отдаёт один и тот же набор для любого прибора.
type StaticResolver struct {
	set entity.SpecificationSet
}

func NewStaticResolver(set entity.SpecificationSet) *StaticResolver {
	return &StaticResolver{set: set}
}

// NewStaticResolverFromFile читает документ спецификаций в JSON или YAML
// (.yaml, .yml). Если источник в документе не указан, им становится имя файла.
func NewStaticResolverFromFile(path string) (*StaticResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	source := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	decode := DecodeSpecifications

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decode = DecodeYAMLSpecifications
	}

	set, err := decode(data, source)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return NewStaticResolver(set), nil
}

func (r *StaticResolver) Resolve(context.Context, entity.EquipmentIdentity) (entity.SpecificationSet, error) {
	return r.set, nil
}
