package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtCustomClaims struct {
	StaffID string `json:"staff_id"`
	jwt.RegisteredClaims
}

// TokenClaims is the verified content of a staff token.
type TokenClaims struct {
	StaffID   uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// GenerateToken creates a signed JWT for the provided staff ID.
func GenerateToken(secret string, staffID uuid.UUID, ttl time.Duration) (string, TokenClaims, error) {
	now := time.Now()
	claims := &jwtCustomClaims{
		StaffID: staffID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   staffID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", TokenClaims{}, err
	}

	return signed, TokenClaims{
		StaffID:   staffID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseToken validates the token and returns its claims.
func ParseToken(secret, tokenString string) (TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return TokenClaims{}, err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return TokenClaims{}, jwt.ErrTokenInvalidClaims
	}

	staffID, err := uuid.Parse(claims.StaffID)
	if err != nil {
		return TokenClaims{}, jwt.ErrTokenInvalidClaims
	}

	out := TokenClaims{StaffID: staffID, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
