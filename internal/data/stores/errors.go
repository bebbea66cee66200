package stores

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsBusyError returns true if the error is a SQLITE_BUSY error.
func IsBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_BUSY
	}
	return false
}

// IsNotFoundError returns true if the error is a "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// classifyWrite rewraps write failures that have a clearer story than
// the driver message. A busy error means another pulse process held the
// write lock past the busy timeout.
func classifyWrite(err error) error {
	if IsBusyError(err) {
		return fmt.Errorf("store locked by another process: %w", err)
	}
	return err
}
