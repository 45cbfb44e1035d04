package models

import "time"

// Term is shared by zero or more courses and referenced by id.
type Term struct {
	ID      int64      `db:"id" json:"id"`
	Name    string     `db:"name" json:"name"`
	StartAt *time.Time `db:"start_at" json:"start_at,omitempty"`
	EndAt   *time.Time `db:"end_at" json:"end_at,omitempty"`
}
