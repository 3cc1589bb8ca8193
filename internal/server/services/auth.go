package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recordkeeper/internal/common"
	"github.com/dmitrijs2005/recordkeeper/internal/cryptox"
	"github.com/dmitrijs2005/recordkeeper/internal/logging"
	"github.com/dmitrijs2005/recordkeeper/internal/server/auth"
	"github.com/dmitrijs2005/recordkeeper/internal/server/config"
	"github.com/dmitrijs2005/recordkeeper/internal/server/models"
	"github.com/dmitrijs2005/recordkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recordkeeper/internal/validation"
)

const nonceSize = 32

// AuthService runs the challenge/response login: the caller proves control
// of a wallet address by signing a one-time nonce and receives a JWT.
type AuthService struct {
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	challengeValidityDuration   time.Duration
	now                         func() time.Time
}

func NewAuthService(m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		challengeValidityDuration:   cfg.ChallengeValidityDuration,
		now:                         time.Now,
	}
}

// Challenge issues a fresh nonce bound to address.
func (s *AuthService) Challenge(ctx context.Context, address string) (*models.Challenge, error) {
	if _, err := cryptox.DecodeAddress(address); err != nil {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "address", Message: err.Error()}}}
	}

	nonce, err := common.MakeRandHexString(nonceSize)
	if err != nil {
		return nil, fmt.Errorf("error generating nonce: %w", err)
	}

	c := models.Challenge{
		Nonce:     nonce,
		Address:   address,
		ExpiresAt: s.now().Add(s.challengeValidityDuration),
	}
	if err := s.repomanager.Challenges(s.repomanager.Conn()).Create(ctx, c); err != nil {
		return nil, fmt.Errorf("error storing challenge: %w", err)
	}
	return &c, nil
}

// Authenticate redeems nonce and returns an access token for address when
// signature (base64) is a valid signature of the nonce by that address.
func (s *AuthService) Authenticate(ctx context.Context, address, nonce, signature string) (string, error) {
	c, err := s.repomanager.Challenges(s.repomanager.Conn()).Take(ctx, nonce)
	if err != nil {
		return "", err
	}
	if c.Expired(s.now()) || c.Address != address {
		return "", common.ErrChallengeExpired
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return "", common.ErrInvalidSignature
	}
	if err := cryptox.VerifyAddress(address, []byte(nonce), sig); err != nil {
		return "", common.ErrInvalidSignature
	}

	token, err := auth.GenerateToken(address, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// VerifyToken returns the address carried by a valid access token.
func (s *AuthService) VerifyToken(token string) (string, error) {
	return auth.GetAddressFromToken(token, s.jwtSecret)
}

// PurgeExpired removes challenges nobody redeemed in time.
func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repomanager.Challenges(s.repomanager.Conn()).DeleteExpired(ctx, s.now())
}

// RunCleanup calls PurgeExpired every interval until ctx is done.
func (s *AuthService) RunCleanup(ctx context.Context, interval time.Duration, log logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				log.Error(ctx, "challenge cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				log.Debug(ctx, "expired challenges removed", "count", n)
			}
		}
	}
}
