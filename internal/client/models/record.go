package models

import "time"

// Record is a ledger record as the client sees it.
// CreatedAt and UpdatedAt are milliseconds since the unix epoch.
type Record struct {
	ID          int64
	Name        string
	Description string
	Value       uint64
	// Owner is the address of the wallet that created the record. It never changes.
	Owner     string
	CreatedAt int64
	UpdatedAt int64
}

// CreatedTime returns CreatedAt as a time.Time.
func (r Record) CreatedTime() time.Time { return time.UnixMilli(r.CreatedAt) }

// UpdatedTime returns UpdatedAt as a time.Time.
func (r Record) UpdatedTime() time.Time { return time.UnixMilli(r.UpdatedAt) }

type CreateRecordInput struct {
	Name        string
	Description string
	Value       uint64
}

type UpdateRecordInput struct {
	ID          int64
	Name        string
	Description string
	Value       uint64
}
