// Package users provides database operations for user management.
//
// Tokens are never stored in clear text: callers hash them with
// auth.HashToken before handing them to the repository.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByTokenHash(auth.HashToken(token))
package users

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/annotator/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user holding the given API token hash.
func (r *Repository) CreateUser(ctx context.Context, username, tokenHash string) (*entities.User, error) {
	user := &entities.User{
		Username:  username,
		TokenHash: tokenHash,
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}

	return user, nil
}

// GetUserByTokenHash retrieves a user by the SHA-256 hash of their token.
func (r *Repository) GetUserByTokenHash(ctx context.Context, tokenHash string) (*entities.User, error) {
	if tokenHash == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user entities.User
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
