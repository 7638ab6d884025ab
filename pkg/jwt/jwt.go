package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid upload token")
	ErrExpiredToken = errors.New("upload token expired")
)

// UploadClaims authorizes one direct-to-storage upload
type UploadClaims struct {
	TeamID              int      `json:"team_id"`
	Pathname            string   `json:"pathname"`
	AllowedContentTypes []string `json:"allowed_content_types"`
	MaxSize             int64    `json:"max_size"`
	jwt.RegisteredClaims
}

// Manager signs and verifies upload tokens
type Manager struct {
	secret string
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewManager creates a new upload token manager
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expiry: expiry,
		issuer: "oncovoice",
		now:    time.Now,
	}
}

// GenerateUploadToken signs a token for the given object pathname
func (m *Manager) GenerateUploadToken(teamID int, pathname string, allowed []string, maxSize int64) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.expiry)
	claims := &UploadClaims{
		TeamID:              teamID,
		Pathname:            pathname,
		AllowedContentTypes: allowed,
		MaxSize:             maxSize,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   pathname,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign upload token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateUploadToken verifies signature, issuer and expiry
func (m *Manager) ValidateUploadToken(tokenString string) (*UploadClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UploadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*UploadClaims)
	if !ok || !token.Valid || claims.Pathname == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetExpiry returns the token lifetime
func (m *Manager) GetExpiry() time.Duration {
	return m.expiry
}
