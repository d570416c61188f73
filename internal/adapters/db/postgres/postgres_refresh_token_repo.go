package postgres

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"gorm.io/gorm"
)

type PostgresRefreshTokenRepo struct {
	db *gorm.DB
}

func NewPostgresRefreshTokenRepo(db *gorm.DB) *PostgresRefreshTokenRepo {
	return &PostgresRefreshTokenRepo{db: db}
}

func (p *PostgresRefreshTokenRepo) Create(ctx context.Context, t model.RefreshToken) error {
	t.Revoked = false
	if err := p.db.WithContext(ctx).Create(&t).Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "CreateRefreshToken")
	}
	return nil
}

func (p *PostgresRefreshTokenRepo) FindByToken(ctx context.Context, token string) (model.RefreshToken, error) {
	var t model.RefreshToken
	res := p.db.WithContext(ctx).Where("token = ?", token).First(&t)
	if err := mapFirst(res.Error, "refresh token", "FindRefreshToken"); err != nil {
		return model.RefreshToken{}, err
	}
	return t, nil
}

func (p *PostgresRefreshTokenRepo) RevokeByToken(ctx context.Context, token string) error {
	res := p.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "RevokeRefreshToken")
	}
	return nil
}
