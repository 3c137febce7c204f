package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ruangkampus/internal/models"
)

// Times are stored as RFC3339 in UTC so records stay unambiguous across
// the requester's and the catalog's timezones.
const timeLayout = time.RFC3339

// CreateLoan inserts a new request and fills in the assigned id and
// timestamps.
func (db *DB) CreateLoan(ctx context.Context, loan *models.Loan) error {
	query := `INSERT INTO loans (
				borrower_name, room_id, room_name, start_time, end_time,
				purpose, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.db.ExecContext(ctx, query,
		loan.BorrowerName,
		loan.RoomID,
		loan.RoomName,
		loan.StartTime.UTC().Format(timeLayout),
		loan.EndTime.UTC().Format(timeLayout),
		loan.Purpose,
		loan.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	loan.ID = id
	loan.CreatedAt = now
	loan.UpdatedAt = now

	return nil
}

// GetLoan fetches one record by id.
func (db *DB) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	query := `SELECT id, borrower_name, room_id, room_name, start_time, end_time,
				purpose, status, created_at, updated_at
			FROM loans WHERE id = ?`

	loan, err := scanLoan(db.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

// UpdateLoan replaces every mutable field of the record. Last write wins;
// there is no version check on the collection.
func (db *DB) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	query := `UPDATE loans SET
				borrower_name = ?, room_id = ?, room_name = ?,
				start_time = ?, end_time = ?, purpose = ?, status = ?,
				updated_at = ?
			WHERE id = ?`
	now := time.Now().UTC()
	result, err := db.db.ExecContext(ctx, query,
		loan.BorrowerName,
		loan.RoomID,
		loan.RoomName,
		loan.StartTime.UTC().Format(timeLayout),
		loan.EndTime.UTC().Format(timeLayout),
		loan.Purpose,
		loan.Status,
		now,
		loan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrLoanNotFound
	}
	loan.UpdatedAt = now
	return nil
}

// DeleteLoan removes the record.
func (db *DB) DeleteLoan(ctx context.Context, id int64) error {
	result, err := db.db.ExecContext(ctx, `DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrLoanNotFound
	}
	return nil
}

// ListLoans returns the full collection ordered by id. Role filtering is a
// consumer concern; the collection itself is served whole.
func (db *DB) ListLoans(ctx context.Context) ([]models.Loan, error) {
	query := `SELECT id, borrower_name, room_id, room_name, start_time, end_time,
				purpose, status, created_at, updated_at
			FROM loans ORDER BY id`

	rows, err := db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}
	return loans, nil
}

// CountLoansByStatus returns how many records carry each status.
func (db *DB) CountLoansByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := db.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM loans GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count loans: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*models.Loan, error) {
	var loan models.Loan
	var start, end string
	err := row.Scan(
		&loan.ID,
		&loan.BorrowerName,
		&loan.RoomID,
		&loan.RoomName,
		&start,
		&end,
		&loan.Purpose,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if loan.StartTime, err = time.Parse(timeLayout, start); err != nil {
		return nil, fmt.Errorf("bad start_time %q: %w", start, err)
	}
	if loan.EndTime, err = time.Parse(timeLayout, end); err != nil {
		return nil, fmt.Errorf("bad end_time %q: %w", end, err)
	}
	return &loan, nil
}
