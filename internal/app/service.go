package app

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/AzraAnimating/ProtokollDB/internal/archive"
	"github.com/AzraAnimating/ProtokollDB/internal/store"
)

type Service struct {
	Config  *Config
	Store   store.ProtocolStore
	Archive *archive.Archive
	Auth    *Auth
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	protocolStore, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	fileArchive, err := archive.New(config.Storage.ProtocolDir, config.Storage.SubmissionDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init archive: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config:  config,
		Store:   protocolStore,
		Archive: fileArchive,
		Auth:    auth,
	}, nil
}

// BearerToken extracts the token from the Authorization header. A missing or
// differently-shaped header is a malformed-request signal, not an
// authentication failure.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}

// Authenticate verifies a bearer token and reports whether it belongs to a
// live session, along with the subject identity embedded in the claims.
// Signature or claim-shape failures are errors; an expired or unknown
// session is a plain not-authenticated result. Seeing an expired claim
// triggers a background sweep of every session past its window.
func (s *Service) Authenticate(token string) (bool, string, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.Config.Encryption.TokenSecret), nil
	}); err != nil {
		return false, "", fmt.Errorf("failed to verify token: %w", err)
	}

	expiry, ok := claims["exp"].(string)
	if !ok {
		return false, "", fmt.Errorf("malformed token: missing expiry")
	}
	expiryTime, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return false, "", fmt.Errorf("malformed token expiry: %w", err)
	}

	if time.Now().Unix() > expiryTime {
		go s.SweepExpiredSessions()
		return false, "", nil
	}

	sessionID, ok := claims["sessionid"].(string)
	if !ok {
		return false, "", fmt.Errorf("malformed token: missing session id")
	}
	email, ok := claims["sub"].(string)
	if !ok {
		return false, "", fmt.Errorf("malformed token: missing subject")
	}

	valid, err := s.Store.IsSessionValid(sessionID)
	if err != nil {
		return false, "", fmt.Errorf("failed to check session: %w", err)
	}
	if !valid {
		return false, "", nil
	}
	return true, email, nil
}

// AuthenticateAdmin runs Authenticate and additionally requires the subject
// to be on the admin allow-list.
func (s *Service) AuthenticateAdmin(token string) (bool, string, error) {
	valid, email, err := s.Authenticate(token)
	if err != nil || !valid {
		return false, "", err
	}

	admin, err := s.Store.IsAdmin(email)
	if err != nil {
		return false, "", fmt.Errorf("failed to check admin status: %w", err)
	}
	if !admin {
		return false, "", nil
	}
	return true, email, nil
}

// SweepExpiredSessions is fire-and-forget: failures are logged, never
// propagated.
func (s *Service) SweepExpiredSessions() {
	cutoff := time.Now().Add(-s.Config.SessionTTL()).Unix()
	removed, err := s.Store.DeleteExpiredSessions(cutoff)
	if err != nil {
		logger.Error.Printf("Failed to remove expired sessions: %v", err)
		return
	}
	if removed > 0 {
		logger.Debug.Printf("Removed %d expired sessions", removed)
	}
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
