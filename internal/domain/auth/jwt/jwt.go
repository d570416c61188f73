package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of both access and refresh tokens: the subject is
// the user id, ID carries a random jti.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type JWTUtil interface {
	SignAccessToken(userID uuid.UUID, email string) (string, error)
	VerifyAccessToken(token string) (Claims, error)
	SignRefreshToken(userID uuid.UUID, email string) (string, error)
	VerifyRefreshToken(token string) (Claims, error)
	// RefreshTokenExpiryDate is the absolute expiry to persist next to a
	// freshly signed refresh token.
	RefreshTokenExpiryDate() time.Time
	RefreshTTL() time.Duration
}
