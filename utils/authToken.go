package utils

import (
	"time"

	"github.com/google/uuid"
	"github.com/o1egl/paseto"
	"github.com/pkg/errors"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenClaims is the payload sealed into every token. The role is not part
// of it; it is always read from the account's profile.
type TokenClaims struct {
	ID        string    `json:"jti"`
	UserID    uint      `json:"user_id"`
	TokenType string    `json:"token_type"`
	IssuedAt  time.Time `json:"iat"`
	Expiry    time.Time `json:"exp"`
}

// TokenMaker issues and opens PASETO v2 local tokens.
type TokenMaker struct {
	paseto     *paseto.V2
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenMaker returns a maker sealing tokens with the given 32 byte key.
func NewTokenMaker(symmetricKey string, accessTTL, refreshTTL time.Duration) (*TokenMaker, error) {
	if len(symmetricKey) != 32 {
		return nil, errors.Errorf("symmetric key must be 32 bytes long, got %d", len(symmetricKey))
	}
	return &TokenMaker{
		paseto:     paseto.NewV2(),
		key:        []byte(symmetricKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// GenerateTokens generates both the access token and refresh token for the given user ID.
func (m *TokenMaker) GenerateTokens(userID uint) (accessToken, refreshToken string, err error) {
	accessToken, _, err = m.generate(userID, AccessToken, m.accessTTL)
	if err != nil {
		return "", "", errors.Wrap(err, "generate access token")
	}
	refreshToken, _, err = m.generate(userID, RefreshToken, m.refreshTTL)
	if err != nil {
		return "", "", errors.Wrap(err, "generate refresh token")
	}
	return accessToken, refreshToken, nil
}

// GenerateAccessToken generates only the access token for a user.
func (m *TokenMaker) GenerateAccessToken(userID uint) (string, error) {
	token, _, err := m.generate(userID, AccessToken, m.accessTTL)
	return token, err
}

func (m *TokenMaker) generate(userID uint, tokenType string, ttl time.Duration) (string, *TokenClaims, error) {
	now := m.now()
	claims := &TokenClaims{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenType: tokenType,
		IssuedAt:  now,
		Expiry:    now.Add(ttl),
	}
	token, err := m.paseto.Encrypt(m.key, claims, nil)
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to encrypt token")
	}
	return token, claims, nil
}

// ValidateToken opens the token and checks its expiry and type.
func (m *TokenMaker) ValidateToken(token, tokenType string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := m.paseto.Decrypt(token, m.key, &claims, nil); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if m.now().After(claims.Expiry) {
		return nil, ErrExpiredToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return &claims, nil
}
