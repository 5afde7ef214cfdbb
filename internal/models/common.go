package models

import "time"

// AuditFields holds the timestamps stored on every ledger row.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}
