package postgres

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if err := mapFirst(res.Error, "user", "GetUserByEmail"); err != nil {
		return model.User{}, err
	}
	return u, nil
}
