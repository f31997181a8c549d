// Package dataset provides the in-memory loan dataset: a flat record type,
// an immutable store with equality-based lookups, and a deterministic mock
// data generator for seeding.
package dataset

import (
	"slices"

	"go.uber.org/zap"
)

// Record is a single flat data row, mapping field names to scalar values
// (strings, numbers, or ISO date strings).
type Record map[string]any

// Well-known field names of a loan record.
const (
	FieldUserID          = "user_id"
	FieldUserName        = "user_name"
	FieldRegion          = "region"
	FieldSex             = "sex"
	FieldLoanAmount      = "loan_amount"
	FieldCurrency        = "currency"
	FieldDisbursedDate   = "disbursed_date"
	FieldDueDate         = "due_date"
	FieldPending         = "pending"
	FieldCreditScore     = "credit_score"
	FieldRepaymentStatus = "repayment_status"
)

// Store holds an ordered sequence of records. It is read-only after
// construction, so concurrent lookups need no coordination.
type Store struct {
	records []Record
	logger  *zap.Logger
}

// NewStore creates a store over the given records. The slice is cloned so
// later mutation of the caller's slice does not affect the store; the
// records themselves are shared and must not be mutated.
func NewStore(records []Record, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		records: slices.Clone(records),
		logger:  logger,
	}
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// All returns the full dataset in load order.
func (s *Store) All() []Record {
	return slices.Clone(s.records)
}

// Find returns the records matching every key of the filter exactly. A
// record missing a filtered key is excluded rather than being an error.
// An empty filter returns all records.
func (s *Store) Find(filter map[string]any) []Record {
	if len(filter) == 0 {
		return s.All()
	}

	results := make([]Record, 0)
	for _, record := range s.records {
		match := true
		for key, want := range filter {
			got, ok := record[key]
			if !ok || got != want {
				match = false
				break
			}
		}
		if match {
			results = append(results, record)
		}
	}

	s.logger.Debug("find completed",
		zap.Int("filtered", len(filter)),
		zap.Int("matched", len(results)))
	return results
}
