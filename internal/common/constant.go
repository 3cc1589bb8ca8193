// Package common contains shared constants and sentinel errors used across
// recordkeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// ledger access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Local storage keys persisted by the wallet session.
const (
	StorageKeyConnected = "wallet_connected"
	StorageKeyPublicKey = "wallet_publicKey"
)
