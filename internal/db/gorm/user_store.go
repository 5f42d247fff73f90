package gorm

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noteforge/noteforge/pkg/models"
)

// UserStore provides account database operations.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new user store.
func NewUserStore(store *Store) *UserStore {
	return &UserStore{db: store.DB}
}

// CreateUser inserts a user row. Returns models.ErrConflict when the
// email is already taken. Insert-or-ignore on the unique email index
// keeps the check and the insert a single atomic statement.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	row := &User{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(row)
	if result.Error != nil {
		return fmt.Errorf("create user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrConflict
	}
	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	return nil
}

// GetUserByEmail retrieves a user by email. Returns nil, nil when no
// row matches.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row User
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelUser(&row), nil
}

// GetUserByID retrieves a user by id. Returns nil, nil when no row
// matches.
func (s *UserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var row User
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelUser(&row), nil
}
