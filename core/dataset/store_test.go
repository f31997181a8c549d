package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRecords() []Record {
	return []Record{
		{FieldUserName: "Juan Perez", FieldRegion: "Central", FieldSex: "Male", FieldLoanAmount: float64(15000), FieldCurrency: "EUR"},
		{FieldUserName: "Maria Rodriguez", FieldRegion: "Central", FieldSex: "Female", FieldLoanAmount: float64(22000), FieldCurrency: "USD"},
		{FieldUserName: "Ana Gomez", FieldRegion: "North", FieldSex: "Female", FieldLoanAmount: float64(5000), FieldCurrency: "EUR"},
	}
}

func TestNewStore(t *testing.T) {
	records := testRecords()
	store := NewStore(records, nil)
	assert.Equal(t, 3, store.Len())

	// Mutating the caller's slice must not affect the store.
	records[0] = Record{FieldUserName: "someone else"}
	assert.Equal(t, "Juan Perez", store.All()[0][FieldUserName])
}

func TestStore_All(t *testing.T) {
	store := NewStore(testRecords(), nil)
	all := store.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "Juan Perez", all[0][FieldUserName])
	assert.Equal(t, "Ana Gomez", all[2][FieldUserName])
}

func TestStore_Find(t *testing.T) {
	store := NewStore(testRecords(), nil)

	t.Run("empty filter returns all records", func(t *testing.T) {
		assert.Len(t, store.Find(nil), 3)
		assert.Len(t, store.Find(map[string]any{}), 3)
	})

	t.Run("single key equality", func(t *testing.T) {
		results := store.Find(map[string]any{FieldRegion: "Central"})
		assert.Len(t, results, 2)
	})

	t.Run("conjunction of keys", func(t *testing.T) {
		results := store.Find(map[string]any{FieldRegion: "Central", FieldSex: "Female"})
		assert.Len(t, results, 1)
		assert.Equal(t, "Maria Rodriguez", results[0][FieldUserName])
	})

	t.Run("equality is exact in type and value", func(t *testing.T) {
		// loan_amount is stored as float64; an int filter value must not match.
		assert.Empty(t, store.Find(map[string]any{FieldLoanAmount: 15000}))
		assert.Len(t, store.Find(map[string]any{FieldLoanAmount: float64(15000)}), 1)
	})

	t.Run("unknown key excludes records rather than erroring", func(t *testing.T) {
		assert.Empty(t, store.Find(map[string]any{"no_such_field": "x"}))
	})

	t.Run("no match yields empty, not nil panic", func(t *testing.T) {
		results := store.Find(map[string]any{FieldRegion: "South"})
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestGenerateMockLoans(t *testing.T) {
	records := GenerateMockLoans(50, 42)
	assert.Len(t, records, 50)

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		again := GenerateMockLoans(50, 42)
		assert.Equal(t, records, again)
	})

	t.Run("pinned borrowers are present", func(t *testing.T) {
		assert.Equal(t, "Juan Perez", records[0][FieldUserName])
		assert.Equal(t, "Central", records[0][FieldRegion])
		assert.Equal(t, float64(15000), records[0][FieldLoanAmount])
		assert.Equal(t, "Maria Rodriguez", records[1][FieldUserName])
		assert.Equal(t, "Female", records[1][FieldSex])
		assert.Equal(t, "Ana Gomez", records[2][FieldUserName])
	})

	t.Run("generated values stay within bounds", func(t *testing.T) {
		for _, record := range records[3:] {
			amount := record[FieldLoanAmount].(float64)
			assert.GreaterOrEqual(t, amount, float64(1000))
			assert.LessOrEqual(t, amount, float64(50000))

			score := record[FieldCreditScore].(int64)
			assert.GreaterOrEqual(t, score, int64(300))
			assert.LessOrEqual(t, score, int64(850))

			date := record[FieldDisbursedDate].(string)
			assert.Regexp(t, `^202[2-4]-\d{2}-\d{2}$`, date)
		}
	})
}
