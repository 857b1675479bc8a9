package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/pkg/errcodes"
	"calibration_analyzer/pkg/lox"
)

// SpecificationRepository: каталог спецификаций производителей.
type SpecificationRepository struct {
	db *sqlx.DB
}

func NewSpecificationRepository(db *sqlx.DB) *SpecificationRepository {
	return &SpecificationRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *SpecificationRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Resolve возвращает спецификации по производителю и модели без учёта регистра.
func (r *SpecificationRepository) Resolve(ctx context.Context, identity entity.EquipmentIdentity) (entity.SpecificationSet, error) {
	if !identity.HasManufacturer() || !identity.HasModel() {
		return entity.SpecificationSet{}, domain.NewError(errcodes.SpecNotFound, "equipment identity is incomplete")
	}

	query := `
		SELECT manufacturer, model, equipment_type, position, parameter, unit, tolerance,
		       range_min, range_max, details, source, updated_at
		FROM specification_entries
		WHERE lower(manufacturer) = lower($1) AND lower(model) = lower($2)
		ORDER BY position`

	var schemas []specificationSchema
	if err := r.db.SelectContext(ctx, &schemas, query,
		strings.TrimSpace(identity.Manufacturer), strings.TrimSpace(identity.Model),
	); err != nil {
		return entity.SpecificationSet{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get specifications")
	}

	if len(schemas) == 0 {
		return entity.SpecificationSet{}, domain.NewError(errcodes.SpecNotFound, "no specifications for "+identity.String())
	}

	entries, err := lox.MapErr(schemas, func(s specificationSchema) (entity.SpecificationEntry, error) {
		return s.toDomain()
	})
	if err != nil {
		return entity.SpecificationSet{}, domain.WrapError(err, errcodes.InternalServerError, "failed to convert specification")
	}

	set := entity.SpecificationSet{Entries: entries}

	set.Sources = lo.Uniq(lo.FilterMap(schemas, func(s specificationSchema, _ int) (string, bool) {
		return s.Source, s.Source != ""
	}))

	if len(set.Sources) == 0 {
		set.Sources = nil
	}

	return set, nil
}

// Save заменяет спецификации оборудования целиком.
func (r *SpecificationRepository) Save(ctx context.Context, identity entity.EquipmentIdentity, set entity.SpecificationSet) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM specification_entries
			WHERE lower(manufacturer) = lower($1) AND lower(model) = lower($2)`,
			strings.TrimSpace(identity.Manufacturer), strings.TrimSpace(identity.Model),
		); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to delete specifications")
		}

		source := set.PrimarySource()

		for i, e := range set.Entries {
			schema, err := fromSpecificationEntry(identity, i, source, e)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal details")
			}

			if _, err := tx.NamedExecContext(ctx, `
				INSERT INTO specification_entries (manufacturer, model, equipment_type, position, parameter, unit,
				                                   tolerance, range_min, range_max, details, source, updated_at)
				VALUES (:manufacturer, :model, :equipment_type, :position, :parameter, :unit,
				        :tolerance, :range_min, :range_max, :details, :source, :updated_at)`,
				schema,
			); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, fmt.Sprintf("failed at index %d", i))
			}
		}

		return nil
	})
}
