package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/AzraAnimating/ProtokollDB/internal/metrics"
)

const claimIssuer = "protokolldb"

// IssueSession records a new session and returns a signed bearer token
// carrying the subject, issuer, expiry and session id. The expiry is fixed at
// issuance; nothing extends it.
func (s *Service) IssueSession(email string) (string, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	if err := s.Store.CreateSession(sessionID, now.Unix()); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	expiry := now.Add(s.Config.SessionTTL()).Unix()
	claims := jwt.MapClaims{
		"sub":       email,
		"iss":       claimIssuer,
		"exp":       strconv.FormatInt(expiry, 10),
		"sessionid": sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.Config.Encryption.TokenSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	metrics.SessionsIssued.Inc()
	return signed, nil
}
