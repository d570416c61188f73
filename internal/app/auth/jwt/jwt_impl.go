package jwt

import (
	"errors"
	"time"

	jwt2 "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/jwt"
	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errNoAccessSecret  = errors.New("jwt: access token secret is not set")
	errNoRefreshSecret = errors.New("jwt: refresh token secret is not set")
	errSameSecrets     = errors.New("jwt: access and refresh secrets must differ")
)

type JwtUtilImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	audience      string
	now           func() time.Time
}

// NewJWTUtil fails on missing or shared secrets; callers treat that as fatal.
func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	switch {
	case cfg.AccessTokenSecret == "":
		return nil, errNoAccessSecret
	case cfg.RefreshTokenSecret == "":
		return nil, errNoRefreshSecret
	case cfg.AccessTokenSecret == cfg.RefreshTokenSecret:
		return nil, errSameSecrets
	}

	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &JwtUtilImpl{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		now:           time.Now,
	}, nil
}

func (j *JwtUtilImpl) SignAccessToken(userID uuid.UUID, email string) (string, error) {
	return j.sign(userID, email, j.accessTTL, j.accessSecret)
}

func (j *JwtUtilImpl) SignRefreshToken(userID uuid.UUID, email string) (string, error) {
	return j.sign(userID, email, j.refreshTTL, j.refreshSecret)
}

func (j *JwtUtilImpl) VerifyAccessToken(raw string) (jwt2.Claims, error) {
	return j.verify(raw, j.accessSecret)
}

func (j *JwtUtilImpl) VerifyRefreshToken(raw string) (jwt2.Claims, error) {
	return j.verify(raw, j.refreshSecret)
}

func (j *JwtUtilImpl) RefreshTokenExpiryDate() time.Time {
	return j.now().Add(j.refreshTTL)
}

func (j *JwtUtilImpl) RefreshTTL() time.Duration {
	return j.refreshTTL
}

func (j *JwtUtilImpl) sign(userID uuid.UUID, email string, ttl time.Duration, secret []byte) (string, error) {
	now := j.now()

	claims := jwt2.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email: email,
	}
	if j.audience != "" {
		claims.Audience = jwt.ClaimStrings{j.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", customErrors.WrapInternal(err, "sign token")
	}
	return signed, nil
}

func (j *JwtUtilImpl) verify(raw string, secret []byte) (jwt2.Claims, error) {
	if raw == "" {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	if j.audience != "" {
		opts = append(opts, jwt.WithAudience(j.audience))
	}

	var claims jwt2.Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}

	return claims, nil
}
