package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/domain"
)

// MapError maps store failures into domain error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *domain.Error
	if errors.As(err, &existing) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Wrap(domain.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.Wrap(domain.CodeInternal, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domain.Wrap(domain.CodeConflict, op, err) // unique_violation
		case "23503":
			return domain.Wrap(domain.CodeValidation, op, err) // foreign_key_violation
		case "22P02", "23502", "23514":
			return domain.Wrap(domain.CodeValidation, op, err) // bad text repr / not null / check
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint failed"):
		return domain.Wrap(domain.CodeConflict, op, err) // sqlite
	case strings.Contains(msg, "foreign key constraint failed"):
		return domain.Wrap(domain.CodeValidation, op, err) // sqlite
	}
	return domain.Wrap(domain.CodeInternal, op, err)
}
