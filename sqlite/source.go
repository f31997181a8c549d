// Package sqlite provides the SQLite-backed dataset source. It is the
// "external data source" the record store is built from at process start:
// it can seed a loans table from generated records and load the table back
// into memory.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkombe/loanlens/core/dataset"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
)

const createLoansTable = `
CREATE TABLE IF NOT EXISTS loans (
	user_id          TEXT PRIMARY KEY,
	user_name        TEXT NOT NULL,
	region           TEXT NOT NULL,
	sex              TEXT NOT NULL,
	loan_amount      REAL NOT NULL,
	currency         TEXT NOT NULL,
	disbursed_date   TEXT NOT NULL,
	due_date         TEXT NOT NULL,
	pending          REAL NOT NULL,
	credit_score     INTEGER NOT NULL,
	repayment_status TEXT NOT NULL
)`

const insertLoan = `
INSERT OR REPLACE INTO loans (
	user_id, user_name, region, sex, loan_amount, currency,
	disbursed_date, due_date, pending, credit_score, repayment_status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectLoans = `
SELECT user_id, user_name, region, sex, loan_amount, currency,
       disbursed_date, due_date, pending, credit_score, repayment_status
FROM loans ORDER BY rowid`

// Source reads and seeds the loans table of a SQLite database.
type Source struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures the loans table exists.
func Open(path string, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", path, err)
	}
	if _, err := db.Exec(createLoansTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create loans table: %w", err)
	}
	return &Source{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Source) Close() error {
	return s.db.Close()
}

// Count returns the number of loans currently stored.
func (s *Source) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM loans").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count loans: %w", err)
	}
	return n, nil
}

// Seed inserts the given records into the loans table inside a single
// transaction, replacing rows with matching user ids.
func (s *Source) Seed(ctx context.Context, records []dataset.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertLoan)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err := stmt.ExecContext(ctx,
			record[dataset.FieldUserID],
			record[dataset.FieldUserName],
			record[dataset.FieldRegion],
			record[dataset.FieldSex],
			record[dataset.FieldLoanAmount],
			record[dataset.FieldCurrency],
			record[dataset.FieldDisbursedDate],
			record[dataset.FieldDueDate],
			record[dataset.FieldPending],
			record[dataset.FieldCreditScore],
			record[dataset.FieldRepaymentStatus],
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert loan %v: %w", record[dataset.FieldUserID], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	s.logger.Info("seeded loans table", zap.Int("records", len(records)))
	return nil
}

// Load reads the whole loans table back into records, in insertion order.
func (s *Source) Load(ctx context.Context) ([]dataset.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectLoans)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	var records []dataset.Record
	for rows.Next() {
		var userID, userName, region, sex string
		var currency, disbursed, due, repayment string
		var loanAmount, pending float64
		var creditScore int64
		if err := rows.Scan(&userID, &userName, &region, &sex, &loanAmount,
			&currency, &disbursed, &due, &pending, &creditScore, &repayment); err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		records = append(records, dataset.Record{
			dataset.FieldUserID:          userID,
			dataset.FieldUserName:        userName,
			dataset.FieldRegion:          region,
			dataset.FieldSex:             sex,
			dataset.FieldLoanAmount:      loanAmount,
			dataset.FieldCurrency:        currency,
			dataset.FieldDisbursedDate:   disbursed,
			dataset.FieldDueDate:         due,
			dataset.FieldPending:         pending,
			dataset.FieldCreditScore:     creditScore,
			dataset.FieldRepaymentStatus: repayment,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loan rows: %w", err)
	}

	s.logger.Info("loaded loans table", zap.Int("records", len(records)))
	return records, nil
}
