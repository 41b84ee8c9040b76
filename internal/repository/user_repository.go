package repository

import (
	"context"
	"strings"

	"trip-planner/internal/models"
)

// FindOrCreateUserByEmail returns the user with email, creating it with name when absent
func (r *Repository) FindOrCreateUserByEmail(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user := models.User{Email: email, Name: name}
	err := r.db.WithContext(ctx).
		Where(models.User{Email: email}).
		Attrs(models.User{Name: name}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
