package persistence

import (
	"database/sql"
	"time"

	jsoniter "github.com/json-iterator/go"

	"calibration_analyzer/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// specificationSchema: строка таблицы specification_entries.
type specificationSchema struct {
	Manufacturer  string          `db:"manufacturer"`
	Model         string          `db:"model"`
	EquipmentType string          `db:"equipment_type"`
	Position      int             `db:"position"`
	Parameter     string          `db:"parameter"`
	Unit          string          `db:"unit"`
	Tolerance     string          `db:"tolerance"`
	RangeMin      sql.NullFloat64 `db:"range_min"`
	RangeMax      sql.NullFloat64 `db:"range_max"`
	Details       []byte          `db:"details"`
	Source        string          `db:"source"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func fromSpecificationEntry(
	identity entity.EquipmentIdentity,
	position int,
	source string,
	e entity.SpecificationEntry,
) (specificationSchema, error) {
	s := specificationSchema{
		Manufacturer:  identity.Manufacturer,
		Model:         identity.Model,
		EquipmentType: identity.EquipmentType,
		Position:      position,
		Parameter:     e.Parameter,
		Unit:          e.Unit,
		Tolerance:     e.Tolerance,
		Source:        source,
		UpdatedAt:     time.Now(),
	}

	if e.Range != nil {
		s.RangeMin = sql.NullFloat64{Float64: e.Range.Min, Valid: true}
		s.RangeMax = sql.NullFloat64{Float64: e.Range.Max, Valid: true}
	}

	if len(e.Details) > 0 {
		details, err := json.Marshal(e.Details)
		if err != nil {
			return specificationSchema{}, err //nolint:wrapcheck
		}

		s.Details = details
	}

	return s, nil
}

func (s *specificationSchema) toDomain() (entity.SpecificationEntry, error) {
	e := entity.SpecificationEntry{
		Parameter: s.Parameter,
		Unit:      s.Unit,
		Tolerance: s.Tolerance,
	}

	if s.RangeMin.Valid && s.RangeMax.Valid {
		e.Range = &entity.RangeBounds{Min: s.RangeMin.Float64, Max: s.RangeMax.Float64}
	}

	if len(s.Details) > 0 {
		if err := json.Unmarshal(s.Details, &e.Details); err != nil {
			return entity.SpecificationEntry{}, err //nolint:wrapcheck
		}
	}

	return e, nil
}
