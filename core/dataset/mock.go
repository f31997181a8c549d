package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

var (
	mockRegions    = []string{"North", "Central"}
	mockCurrencies = []string{"USD", "EUR", "COP"}
	mockStatuses   = []string{"Current", "Late", "Paid"}
)

// GenerateMockLoans builds a deterministic mock loan portfolio of n records.
// The same seed always yields the same dataset. The first three records are
// pinned to known borrowers so lookups by name have stable results.
func GenerateMockLoans(n int, seed int64) []Record {
	rng := rand.New(rand.NewSource(seed))

	records := make([]Record, 0, n)
	for i := 1; i <= n; i++ {
		disbursed := time.Date(
			2022+rng.Intn(3),
			time.Month(1+rng.Intn(12)),
			1+rng.Intn(28),
			0, 0, 0, 0, time.UTC)
		due := disbursed.AddDate(1+rng.Intn(3), 0, 0)

		amount := roundCents(1000 + rng.Float64()*49000)
		pending := 0.0
		if rng.Float64() > 0.2 {
			pending = roundCents(amount * rng.Float64())
		}

		records = append(records, Record{
			FieldUserID:          fmt.Sprintf("P%d", i),
			FieldUserName:        fmt.Sprintf("User %d", i),
			FieldRegion:          mockRegions[rng.Intn(len(mockRegions))],
			FieldSex:             []string{"Male", "Female"}[rng.Intn(2)],
			FieldLoanAmount:      amount,
			FieldCurrency:        mockCurrencies[rng.Intn(len(mockCurrencies))],
			FieldDisbursedDate:   disbursed.Format("2006-01-02"),
			FieldDueDate:         due.Format("2006-01-02"),
			FieldPending:         pending,
			FieldCreditScore:     int64(300 + rng.Intn(551)),
			FieldRepaymentStatus: mockStatuses[rng.Intn(len(mockStatuses))],
		})
	}

	// Pinned borrowers used by examples and tests.
	if n >= 1 {
		records[0][FieldUserName] = "Juan Perez"
		records[0][FieldRegion] = "Central"
		records[0][FieldSex] = "Male"
		records[0][FieldLoanAmount] = float64(15000)
		records[0][FieldCurrency] = "EUR"
	}
	if n >= 2 {
		records[1][FieldUserName] = "Maria Rodriguez"
		records[1][FieldRegion] = "Central"
		records[1][FieldSex] = "Female"
		records[1][FieldLoanAmount] = float64(22000)
		records[1][FieldCurrency] = "USD"
	}
	if n >= 3 {
		records[2][FieldUserName] = "Ana Gomez"
		records[2][FieldRegion] = "Central"
		records[2][FieldSex] = "Female"
		records[2][FieldLoanAmount] = float64(18500)
		records[2][FieldCurrency] = "EUR"
	}

	return records
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
