package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/repo"
	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/config"
	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

var (
	errNoRefreshCookie = customErrors.NewUnauthorized("no refresh token provided")
	errBadRefresh      = customErrors.NewUnauthorized("invalid or expired refresh token")
	errRefreshRevoked  = customErrors.NewUnauthorized("refresh token revoked or not found")
	errRefreshExpired  = customErrors.NewUnauthorized("refresh token expired")
)

type authService struct {
	userRepo  repo.UserRepo
	tokenRepo repo.RefreshTokenRepo
	jwtUtil   jwt.JWTUtil
	cfg       *config.Config
	v         *validator.Validate
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

type Service interface {
	Signup(context.Context, dto.SignupDTO) (model.Session, error)
	Login(context.Context, dto.LoginDTO) (model.Session, error)
	// Refresh mints a new access token from a refresh token. The refresh
	// token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (model.Session, error)
	// Logout revokes refreshToken if it is known. It is idempotent.
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (model.Identity, error)
}

func New(
	ur repo.UserRepo,
	tr repo.RefreshTokenRepo,
	jm jwt.JWTUtil,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, tokenRepo: tr, jwtUtil: jm, cfg: cfg, v: v, now: time.Now,
	}
}

func (a *authService) Signup(ctx context.Context, in dto.SignupDTO) (model.Session, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}
	email := normalizeEmail(in.Email)

	_, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return model.Session{}, customErrors.ErrAlreadyExists
	case !errors.Is(err, customErrors.ErrNotFound):
		return model.Session{}, customErrors.WrapInternal(err, "Signup")
	}

	passwordHash, err := argon2id.CreateHash(in.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "Signup")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         in.Name,
	}
	// The unique index on email settles concurrent signups for the same address.
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.Session{}, customErrors.ErrAlreadyExists
		}
		return model.Session{}, customErrors.WrapInternal(err, "Signup")
	}

	return a.issueSession(ctx, user)
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.Session, error) {
	if err := a.v.Struct(in); err != nil {
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, normalizeEmail(in.Email))
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// burn the same hashing cost as a real comparison
		_, _ = argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, a.dummy())
		return model.Session{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.Session{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.Session{}, customErrors.ErrInvalidCredentials
	}

	return a.issueSession(ctx, user)
}

func (a *authService) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	if refreshToken == "" {
		return model.Session{}, errNoRefreshCookie
	}

	claims, err := a.jwtUtil.VerifyRefreshToken(refreshToken)
	if err != nil {
		return model.Session{}, errBadRefresh
	}

	stored, err := a.tokenRepo.FindByToken(ctx, refreshToken)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Session{}, errRefreshRevoked
	case err != nil:
		return model.Session{}, customErrors.WrapInternal(err, "Refresh")
	}
	if stored.Revoked {
		return model.Session{}, errRefreshRevoked
	}
	if stored.IsExpired(a.now()) {
		return model.Session{}, errRefreshExpired
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil || uid != stored.UserID {
		return model.Session{}, errBadRefresh
	}

	at, err := a.jwtUtil.SignAccessToken(uid, claims.Email)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "SignAccessToken")
	}

	return model.Session{
		AccessToken: at,
		User:        model.UserSummary{ID: uid, Email: claims.Email},
	}, nil
}

func (a *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := a.tokenRepo.RevokeByToken(ctx, refreshToken); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}
	return nil
}

func (a *authService) Authenticate(_ context.Context, accessToken string) (model.Identity, error) {
	claims, err := a.jwtUtil.VerifyAccessToken(accessToken)
	if err != nil {
		return model.Identity{}, customErrors.ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Identity{}, customErrors.ErrInvalidToken
	}
	return model.Identity{ID: uid, Email: claims.Email}, nil
}

func (a *authService) issueSession(ctx context.Context, user model.User) (model.Session, error) {
	at, err := a.jwtUtil.SignAccessToken(user.ID, user.Email)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "SignAccessToken")
	}
	rt, err := a.jwtUtil.SignRefreshToken(user.ID, user.Email)
	if err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "SignRefreshToken")
	}

	if err = a.tokenRepo.Create(ctx, model.RefreshToken{
		Token:     rt,
		UserID:    user.ID,
		ExpiresAt: a.jwtUtil.RefreshTokenExpiryDate(),
	}); err != nil {
		return model.Session{}, customErrors.WrapInternal(err, "StoreRefresh")
	}

	return model.Session{
		AccessToken:  at,
		RefreshToken: rt,
		RefreshTTL:   a.jwtUtil.RefreshTTL(),
		User:         model.UserSummary{ID: user.ID, Email: user.Email, Name: user.Name},
	}, nil
}

func (a *authService) dummy() string {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = argon2id.CreateHash(uuid.NewString(), argonParams)
	})
	return a.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
