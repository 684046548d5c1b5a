package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// Claims is what we put inside a token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenManager signs and validates HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewTokenManager builds a TokenManager. The secret comes from JWT_SECRET.
func NewTokenManager(secret string, ttl time.Duration, clock clockwork.Clock) *TokenManager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, clock: clock}
}

// GenerateToken creates a signed token for the given user.
func (m *TokenManager) GenerateToken(c Claims) (string, error) {
	now := m.clock.Now()
	claims := jwt.MapClaims{
		"sub":   c.UserID,
		"email": c.Email,
		"role":  c.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a token string and returns its claims.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("invalid subject claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Claims{UserID: sub, Email: email, Role: role}, nil
}
