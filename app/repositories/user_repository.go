package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername looks up a user by their username.
func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// SetPassword stores a new password hash for the named user, creating
// the record when it does not exist yet. Used by the admin seeder.
func (r *UserRepository) SetPassword(username, hash string) error {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.Create(&models.User{Username: username, Password: hash}).Error
	case err != nil:
		return err
	}

	user.Password = hash
	return r.db.Save(&user).Error
}
