package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists   = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNameExists   = errors.New("an event with this name already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrAlreadyVoted      = errors.New("user has already voted for this question")
)

// isUniqueViolation recognises a unique constraint failure from either driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
