package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("gorm translated error", func(t *testing.T) {
		assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
		assert.True(t, IsUniqueViolation(fmt.Errorf("insert invitation: %w", gorm.ErrDuplicatedKey)))
	})

	t.Run("postgres unique violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505"}
		assert.True(t, IsUniqueViolation(pgErr))
		assert.True(t, IsUniqueViolation(fmt.Errorf("%w", pgErr)))
	})

	t.Run("postgres foreign key violation", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	})

	t.Run("sqlite message", func(t *testing.T) {
		assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: invitations.token")))
	})

	t.Run("other errors", func(t *testing.T) {
		assert.False(t, IsUniqueViolation(nil))
		assert.False(t, IsUniqueViolation(errors.New("connection refused")))
		assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
	})
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("nope")))
}
