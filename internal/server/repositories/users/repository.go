// Package users provides storage access for user accounts.
package users

import (
	"context"

	"salesreport/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// Delete removes a user row. Missing ids yield common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}
