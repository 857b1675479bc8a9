package specsource_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain"
	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/infrastructure/specsource"
	"calibration_analyzer/pkg/errcodes"
)

var fluke = entity.EquipmentIdentity{ //nolint:gochecknoglobals
	Manufacturer:  "Fluke",
	Model:         "87V",
	EquipmentType: "Digital Multimeter",
}

type countingResolver struct {
	set   entity.SpecificationSet
	err   error
	calls atomic.Int32
}

func (r *countingResolver) Resolve(context.Context, entity.EquipmentIdentity) (entity.SpecificationSet, error) {
	r.calls.Add(1)
	return r.set, r.err
}

func specSet(source string, entries ...entity.SpecificationEntry) entity.SpecificationSet {
	return entity.SpecificationSet{Entries: entries, Sources: []string{source}}
}

func TestChainResolver(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	voltage := entity.SpecificationEntry{Parameter: "Voltage", Unit: "V", Tolerance: "±0.03"}
	current := entity.SpecificationEntry{Parameter: "Current", Unit: "A", Tolerance: "±0.1"}
	failure := errors.New("connection refused")
	notFound := domain.NewError(errcodes.SpecNotFound, "no specifications")

	tests := []struct {
		name      string
		resolvers []specsource.Resolver
		want      entity.SpecificationSet
		wantErr   bool
	}{
		{
			name: "Primary source owns its parameters",
			resolvers: []specsource.Resolver{
				&countingResolver{set: specSet("manual", voltage)},
				&countingResolver{set: specSet("research", entity.SpecificationEntry{Parameter: "voltage", Tolerance: "±1"}, current)},
			},
			want: entity.SpecificationSet{
				Entries: []entity.SpecificationEntry{voltage, current},
				Sources: []string{"manual", "research"},
			},
		},
		{
			name: "Sources without contribution are not listed",
			resolvers: []specsource.Resolver{
				&countingResolver{set: specSet("manual", voltage, current)},
				&countingResolver{set: specSet("research", voltage)},
			},
			want: entity.SpecificationSet{
				Entries: []entity.SpecificationEntry{voltage, current},
				Sources: []string{"manual"},
			},
		},
		{
			name: "Failed source is skipped",
			resolvers: []specsource.Resolver{
				&countingResolver{err: failure},
				&countingResolver{set: specSet("research", current)},
			},
			want: specSet("research", current),
		},
		{
			name: "Not found is an empty answer",
			resolvers: []specsource.Resolver{
				&countingResolver{err: notFound},
				&countingResolver{err: notFound},
			},
			want: entity.SpecificationSet{},
		},
		{
			name: "All sources failed",
			resolvers: []specsource.Resolver{
				&countingResolver{err: failure},
				&countingResolver{err: failure},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(*testing.T) {
			got, err := specsource.NewChainResolver(tt.resolvers...).Resolve(ctx, fluke)
			if tt.wantErr {
				rq.ErrorIs(err, failure)
				return
			}

			rq.NoError(err)
			rq.Equal(tt.want, got)
		})
	}
}

func TestMergeKeepsRangeDependentEntries(t *testing.T) {
	rq := require.New(t)

	low := entity.SpecificationEntry{Parameter: "Voltage", Tolerance: "±0.01", Range: &entity.RangeBounds{Min: 0, Max: 2}}
	high := entity.SpecificationEntry{Parameter: "Voltage", Tolerance: "±0.1", Range: &entity.RangeBounds{Min: 2, Max: 20}}

	merged := specsource.Merge(specSet("manual", low, high), specSet("research", low))

	rq.Equal([]entity.SpecificationEntry{low, high}, merged.Entries)
	rq.Equal([]string{"manual"}, merged.Sources)
}
