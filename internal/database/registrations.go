package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/walletpass/passd/internal/passkit"
)

const upsertRegistrationSQL = `
INSERT INTO registrations (device_library_id, serial_number, pass_type_id, push_token, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (device_library_id, serial_number)
DO UPDATE SET push_token = EXCLUDED.push_token
RETURNING (xmax = 0)
`

// Upsert creates or replaces a registration. Re-registering an existing
// (device, serial) pair overwrites the push token and leaves the ack stamp
// alone. The returned bool is true for a genuinely new row.
func (q *Queries) Upsert(ctx context.Context, reg passkit.Registration) (bool, error) {
	var created bool
	err := q.pool.QueryRow(ctx, upsertRegistrationSQL,
		reg.DeviceLibraryID, reg.Serial, reg.PassTypeID, reg.PushToken, reg.AckVersion,
	).Scan(&created)
	return created, err
}

const deleteRegistrationSQL = `
DELETE FROM registrations WHERE device_library_id = $1 AND serial_number = $2
`

// Delete removes a registration; deleting an absent row succeeds.
func (q *Queries) Delete(ctx context.Context, deviceLibraryID, serial string) error {
	_, err := q.pool.Exec(ctx, deleteRegistrationSQL, deviceLibraryID, serial)
	return err
}

const listForSerialSQL = `
SELECT device_library_id, serial_number, pass_type_id, push_token, updated_at
FROM registrations
WHERE serial_number = $1
`

// ListForSerial returns every registration subscribed to a pass; this is
// the fan-out enumeration and uses the serial index.
func (q *Queries) ListForSerial(ctx context.Context, serial string) ([]passkit.Registration, error) {
	rows, err := q.pool.Query(ctx, listForSerialSQL, serial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

const listForDeviceSinceSQL = `
SELECT device_library_id, serial_number, pass_type_id, push_token, updated_at
FROM registrations
WHERE device_library_id = $1 AND pass_type_id = $2 AND updated_at > $3
`

// ListForDeviceSince returns the device's registrations under passTypeID
// whose ack version is newer than since.
func (q *Queries) ListForDeviceSince(ctx context.Context, deviceLibraryID, passTypeID string, since int64) ([]passkit.Registration, error) {
	rows, err := q.pool.Query(ctx, listForDeviceSinceSQL, deviceLibraryID, passTypeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

const setAckVersionSQL = `
UPDATE registrations
SET updated_at = $3
WHERE device_library_id = $1 AND serial_number = $2 AND updated_at < $3
`

// SetAckVersion records the version a registration was notified about. The
// updated_at guard keeps the stamp monotonic under overlapping updates.
func (q *Queries) SetAckVersion(ctx context.Context, deviceLibraryID, serial string, version int64) error {
	_, err := q.pool.Exec(ctx, setAckVersionSQL, deviceLibraryID, serial, version)
	return err
}

func scanRegistrations(rows pgx.Rows) ([]passkit.Registration, error) {
	var regs []passkit.Registration
	for rows.Next() {
		var r passkit.Registration
		if err := rows.Scan(&r.DeviceLibraryID, &r.Serial, &r.PassTypeID, &r.PushToken, &r.AckVersion); err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}
