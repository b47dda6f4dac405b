package repositories

import (
	"errors"
	"strings"

	"brainrank/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) CreateUser(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.DB.Create(user).Error
}

func (r *UserRepository) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, err
}

func (r *UserRepository) CountUsers() (int64, error) {
	var n int64
	err := r.DB.Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountAdmins() (int64, error) {
	var n int64
	err := r.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error
	return n, err
}

// FindConflict returns another user already holding the given email or
// username, if any.
func (r *UserRepository) FindConflict(excludeID, email, username string) (*models.User, error) {
	var user models.User
	err := r.DB.
		Where("id <> ?", excludeID).
		Where("email = ? OR username = ?", strings.ToLower(email), username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdateUser(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.DB.Save(user).Error
}

// ListUsers returns every user ordered by username for the friend picker.
func (r *UserRepository) ListUsers() ([]models.User, error) {
	var users []models.User
	err := r.DB.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetUsersByIDs(ids []string) (map[string]models.User, error) {
	var users []models.User
	if err := r.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}
