package persistence_test

import (
	"context"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/infrastructure/persistence"
	"calibration_analyzer/pkg/dbtest"
	"calibration_analyzer/pkg/errcodes"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/001_specifications.sql"))

	return db
}

func TestSpecificationRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewSpecificationRepository(testDB(t))

	identity := entity.EquipmentIdentity{
		Manufacturer:  "Fluke",
		Model:         "87V-" + xid.New().String(),
		EquipmentType: "Digital Multimeter",
	}

	_, err := repo.Resolve(ctx, identity)
	rq.True(domain.HasCode(err, errcodes.SpecNotFound))

	set := entity.SpecificationSet{
		Entries: []entity.SpecificationEntry{
			{Parameter: "Voltage", Unit: "V", Tolerance: "±0.01", Range: &entity.RangeBounds{Min: 0, Max: 2}},
			{Parameter: "Voltage", Unit: "V", Tolerance: "±0.1", Range: &entity.RangeBounds{Min: 2, Max: 20}},
			{Parameter: "Current", Unit: "A", Tolerance: "±(0.5% + 2 mA)", Details: map[string]string{"mode": "DC"}},
		},
		Sources: []string{"Fluke 87V manual"},
	}

	rq.NoError(repo.Save(ctx, identity, set))

	lookup := identity
	lookup.Manufacturer = "FLUKE"
	lookup.EquipmentType = "Unknown Type"

	got, err := repo.Resolve(ctx, lookup)
	rq.NoError(err)
	rq.Equal(set, got)

	replacement := entity.SpecificationSet{
		Entries: []entity.SpecificationEntry{{Parameter: "Resistance", Unit: "Ω", Tolerance: "0.05 %"}},
		Sources: []string{"catalog"},
	}

	rq.NoError(repo.Save(ctx, identity, replacement))

	got, err = repo.Resolve(ctx, identity)
	rq.NoError(err)
	rq.Equal(replacement, got)
}

func TestSpecificationRepositoryIncompleteIdentity(t *testing.T) {
	rq := require.New(t)

	repo := persistence.NewSpecificationRepository(nil)

	_, err := repo.Resolve(context.Background(), entity.EquipmentIdentity{
		Manufacturer: entity.UnknownManufacturer,
		Model:        "87V",
	})
	rq.True(domain.HasCode(err, errcodes.SpecNotFound))
}
