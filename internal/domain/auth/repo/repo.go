package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

type RefreshTokenRepo interface {
	Create(ctx context.Context, t model.RefreshToken) error

	FindByToken(ctx context.Context, token string) (model.RefreshToken, error)

	// RevokeByToken marks every record carrying token as revoked. No match is not an error.
	RevokeByToken(ctx context.Context, token string) error
}
