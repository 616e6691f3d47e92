package pgstore

import (
	"gorm.io/gorm"
)

// DoInTx runs fn inside a database transaction, rolling back on error.
func DoInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}
