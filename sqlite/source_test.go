package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mkombe/loanlens/core/dataset"
	"github.com/stretchr/testify/assert"
)

func TestSource_SeedAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "loans.db")

	source, err := Open(path, nil)
	assert.NoError(t, err)
	defer source.Close()

	count, err := source.Count(ctx)
	assert.NoError(t, err)
	assert.Zero(t, count)

	records := dataset.GenerateMockLoans(10, 7)
	assert.NoError(t, source.Seed(ctx, records))

	count, err = source.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 10, count)

	loaded, err := source.Load(ctx)
	assert.NoError(t, err)
	assert.Len(t, loaded, 10)

	t.Run("insertion order and values survive the round trip", func(t *testing.T) {
		assert.Equal(t, "Juan Perez", loaded[0][dataset.FieldUserName])
		assert.Equal(t, float64(15000), loaded[0][dataset.FieldLoanAmount])
		for i, record := range loaded {
			assert.Equal(t, records[i][dataset.FieldUserID], record[dataset.FieldUserID])
			assert.Equal(t, records[i][dataset.FieldRegion], record[dataset.FieldRegion])
			assert.Equal(t, records[i][dataset.FieldDisbursedDate], record[dataset.FieldDisbursedDate])
			assert.Equal(t, records[i][dataset.FieldCreditScore], record[dataset.FieldCreditScore])
		}
	})

	t.Run("seeding again replaces rows by user id", func(t *testing.T) {
		assert.NoError(t, source.Seed(ctx, records))
		count, err := source.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 10, count)
	})

	t.Run("loaded records power the store directly", func(t *testing.T) {
		store := dataset.NewStore(loaded, nil)
		results := store.Find(map[string]any{dataset.FieldUserName: "Juan Perez"})
		assert.Len(t, results, 1)
	})
}
