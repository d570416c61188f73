package postgres

import (
	"errors"

	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// mapFirst converts the result of a gorm First call.
func mapFirst(err error, what, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return customErrors.NewNotFound(what)
	default:
		return customErrors.WrapInternal(err, op)
	}
}
