package account

import (
	"errors"
	"fmt"

	domain "github.com/example/todo-app/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a user already exists.
	ErrUserExists = errors.New("user with this username already exists")
)

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create saves a new user.
func (r *UserRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user by id.
func (r *UserRepository) FindByID(id string) (*domain.User, error) {
	return r.findOne("id = ?", id)
}

// FindByUsername retrieves a user by username.
func (r *UserRepository) FindByUsername(username string) (*domain.User, error) {
	return r.findOne("username = ?", username)
}

func (r *UserRepository) findOne(query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// UsernameExists reports whether a user with the given username exists.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// Activate flips the user's active flag. Used by verification redemption.
func (r *UserRepository) Activate(id string) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Update("active", true)
	if result.Error != nil {
		return fmt.Errorf("failed to activate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
