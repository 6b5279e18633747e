package repos

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/consultancy-backend/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.ErrorCode
	}{
		{"record not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), domain.CodeNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, domain.CodeConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, domain.CodeValidation},
		{"sqlite unique", errors.New("UNIQUE constraint failed: client.id"), domain.CodeConflict},
		{"canceled", context.Canceled, domain.CodeInternal},
		{"other", errors.New("connection reset"), domain.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.err)
			if code := domain.CodeOf(got); code != tc.want {
				t.Fatalf("MapError(%v) code=%q want %q", tc.err, code, tc.want)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("MapError should keep the cause")
			}
		})
	}

	if MapError("op", nil) != nil {
		t.Fatalf("MapError(nil) should be nil")
	}
	already := domain.Conflict("op", "contract complete")
	if got := MapError("other", already); got != already {
		t.Fatalf("MapError should pass domain errors through")
	}
}
