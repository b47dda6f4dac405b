package repositories

import (
	"errors"
	"time"

	"brainrank/internal/models"

	"gorm.io/gorm"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository struct {
	DB *gorm.DB
}

func (r *TokenRepository) Create(token *models.PasswordResetToken) error {
	return r.DB.Create(token).Error
}

func (r *TokenRepository) GetByToken(tokenStr string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	err := r.DB.Where("token = ?", tokenStr).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) DeleteByID(id string) error {
	return r.DB.Delete(&models.PasswordResetToken{}, "id = ?", id).Error
}

// DeleteForUser removes any live tokens so at most one is outstanding.
func (r *TokenRepository) DeleteForUser(userID string) error {
	return r.DB.Where("user_id = ?", userID).Delete(&models.PasswordResetToken{}).Error
}

func (r *TokenRepository) DeleteExpired(before time.Time) (int64, error) {
	tx := r.DB.Where("expires_at <= ?", before).Delete(&models.PasswordResetToken{})
	return tx.RowsAffected, tx.Error
}
