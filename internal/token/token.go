package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const purposePasswordReset = "password_reset"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// Claims is the JWT claim set. Purpose is empty for session tokens and
// "password_reset" for reset tokens; verification checks it so the two kinds
// cannot be replayed for each other.
type Claims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session and password-reset tokens with a shared
// HMAC secret.
type Manager struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

func NewManager(secret string, sessionTTL, resetTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// GenerateSessionToken issues a session token for the given user id.
func (m *Manager) GenerateSessionToken(userID string) (string, time.Time, error) {
	return m.generate(userID, "", m.sessionTTL)
}

// GenerateResetToken issues a password-reset token for the given user id.
func (m *Manager) GenerateResetToken(userID string) (string, time.Time, error) {
	return m.generate(userID, purposePasswordReset, m.resetTTL)
}

func (m *Manager) generate(userID, purpose string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseSession verifies a session token and returns the user id it carries.
func (m *Manager) ParseSession(tokenStr string) (string, error) {
	claims, err := m.verify(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Purpose != "" {
		return "", ErrWrongPurpose
	}
	return claims.UserID, nil
}

// ParseReset verifies a reset token and returns the user id it carries.
func (m *Manager) ParseReset(tokenStr string) (string, error) {
	claims, err := m.verify(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Purpose != purposePasswordReset {
		return "", ErrWrongPurpose
	}
	return claims.UserID, nil
}

func (m *Manager) verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
