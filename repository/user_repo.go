package repository

import (
	"context"

	"jyotikabilling/models"
)

// UserRepository defines the interface for user operations.
// GetUserByEmail returns nil, nil when no user matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
}
