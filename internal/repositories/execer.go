package repositories

import "database/sql"

// execer is satisfied by both *sql.DB and *sql.Tx, letting repository writes
// participate in a caller-managed transaction when atomicity spans entities.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}
