package database

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/walletpass/passd/internal/passkit"
)

const getPassSQL = `
SELECT serial_number, pass_type_id, auth_token, email, pass_data, last_modified, email_status
FROM passes
WHERE serial_number = $1
`

// GetPass returns the pass record for serial.
func (q *Queries) GetPass(ctx context.Context, serial string) (passkit.Pass, error) {
	var p passkit.Pass
	err := q.pool.QueryRow(ctx, getPassSQL, serial).Scan(
		&p.Serial, &p.PassTypeID, &p.AuthToken, &p.Email, &p.Content, &p.Version, &p.EmailStatus,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return passkit.Pass{}, passkit.NewNotFoundError("pass not found")
	}
	if err != nil {
		return passkit.Pass{}, err
	}
	return p, nil
}

const createPassSQL = `
INSERT INTO passes (serial_number, pass_type_id, auth_token, email, pass_data, last_modified, email_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// CreatePass persists a newly issued pass.
func (q *Queries) CreatePass(ctx context.Context, p passkit.Pass) error {
	_, err := q.pool.Exec(ctx, createPassSQL,
		p.Serial, p.PassTypeID, p.AuthToken, p.Email, p.Content, p.Version, p.EmailStatus)
	return err
}

const updatePassContentSQL = `
UPDATE passes
SET pass_data = $2, last_modified = $3
WHERE serial_number = $1 AND last_modified = $4
`

// UpdatePassContent is the conditional write used for version allocation:
// it only applies while the stored stamp still equals expectedVersion.
func (q *Queries) UpdatePassContent(ctx context.Context, serial string, content json.RawMessage, newVersion, expectedVersion int64) (bool, error) {
	tag, err := q.pool.Exec(ctx, updatePassContentSQL, serial, content, newVersion, expectedVersion)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const listUpdatedSinceSQL = `
SELECT serial_number, last_modified
FROM passes
WHERE pass_type_id = $1 AND last_modified > $2
ORDER BY last_modified
`

// ListUpdatedSince returns serial/version pairs for passes of the given
// type updated after since.
func (q *Queries) ListUpdatedSince(ctx context.Context, passTypeID string, since int64) ([]passkit.SerialStamp, error) {
	rows, err := q.pool.Query(ctx, listUpdatedSinceSQL, passTypeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stamps []passkit.SerialStamp
	for rows.Next() {
		var s passkit.SerialStamp
		if err := rows.Scan(&s.Serial, &s.Version); err != nil {
			return nil, err
		}
		stamps = append(stamps, s)
	}
	return stamps, rows.Err()
}

const listPassesSQL = `
SELECT serial_number, pass_type_id, auth_token, email, pass_data, last_modified, email_status
FROM passes
ORDER BY last_modified DESC
`

// ListPasses returns every pass record, newest first.
func (q *Queries) ListPasses(ctx context.Context) ([]passkit.Pass, error) {
	rows, err := q.pool.Query(ctx, listPassesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPasses(rows)
}

const listByEmailStatusSQL = `
SELECT serial_number, pass_type_id, auth_token, email, pass_data, last_modified, email_status
FROM passes
WHERE email_status = $1
`

// ListByEmailStatus returns passes in the given email lifecycle state.
func (q *Queries) ListByEmailStatus(ctx context.Context, status string) ([]passkit.Pass, error) {
	rows, err := q.pool.Query(ctx, listByEmailStatusSQL, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPasses(rows)
}

const setEmailStatusSQL = `
UPDATE passes SET email_status = $2 WHERE serial_number = $1
`

// SetEmailStatus updates the informational lifecycle tag only; the version
// stamp is owned by UpdatePassContent.
func (q *Queries) SetEmailStatus(ctx context.Context, serial, status string) error {
	tag, err := q.pool.Exec(ctx, setEmailStatusSQL, serial, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return passkit.NewNotFoundError("pass not found")
	}
	return nil
}

const countByEmailStatusSQL = `
SELECT email_status, COUNT(*) FROM passes GROUP BY email_status
`

// CountByEmailStatus returns the number of passes per lifecycle state.
func (q *Queries) CountByEmailStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.pool.Query(ctx, countByEmailStatusSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanPasses(rows pgx.Rows) ([]passkit.Pass, error) {
	var passes []passkit.Pass
	for rows.Next() {
		var p passkit.Pass
		if err := rows.Scan(&p.Serial, &p.PassTypeID, &p.AuthToken, &p.Email, &p.Content, &p.Version, &p.EmailStatus); err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, rows.Err()
}
