package repository

import "database/sql"

// sqlNoRows normalises zero-row writes so services can map them to 404s the
// same way they treat missing reads.
func sqlNoRows() error {
	return sql.ErrNoRows
}
