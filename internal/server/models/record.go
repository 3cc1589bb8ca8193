// Package models holds the ledger service domain types.
package models

import "time"

// Record is a ledger record. CreatedAt and UpdatedAt are unix milliseconds.
type Record struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       uint64 `json:"value"`
	Owner       string `json:"owner"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Challenge is a nonce issued to an address; signing it proves ownership
// of the address.
type Challenge struct {
	Nonce     string
	Address   string
	ExpiresAt time.Time
}

// Expired reports whether the challenge can no longer be redeemed at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
