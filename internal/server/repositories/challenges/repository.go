// Package challenges stores the nonces handed out during wallet
// authentication until they are redeemed or expire.
package challenges

import (
	"context"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
)

// Repository defines operations for issuing and redeeming challenges.
type Repository interface {
	// Create stores a new challenge.
	Create(ctx context.Context, c models.Challenge) error

	// Take removes the challenge for nonce and returns it. A nonce can be
	// taken once; unknown nonces yield common.ErrChallengeExpired.
	Take(ctx context.Context, nonce string) (*models.Challenge, error)

	// DeleteExpired drops challenges that expired at or before now and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
