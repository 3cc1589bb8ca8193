package common

import "errors"

var (
	// Wallet errors.
	ErrWalletNotInstalled = errors.New("wallet is not installed; create a keystore with the wallet tool and try again")
	ErrAccessDenied       = errors.New("wallet access was rejected by the user")
	ErrConnectInProgress  = errors.New("wallet connection already in progress")

	// Record store errors.
	ErrNotAuthorized    = errors.New("wallet not connected")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("record not found")
	ErrSubmissionFailed = errors.New("submission failed")

	// Ledger errors.
	ErrNotOwner         = errors.New("caller is not the record owner")
	ErrUnavailable      = errors.New("ledger unavailable")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrChallengeExpired = errors.New("challenge expired or unknown")
	ErrInvalidSignature = errors.New("invalid signature")
)
