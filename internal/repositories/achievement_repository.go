package repositories

import (
	"brainrank/internal/models"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func (r *AchievementRepository) ListForUser(userID string) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.DB.Where("user_id = ?", userID).Order("unlocked_at ASC").Find(&achievements).Error
	return achievements, err
}

// TypesForUser returns the set of achievement types the user has unlocked.
func (r *AchievementRepository) TypesForUser(userID string) (map[models.AchievementType]bool, error) {
	achievements, err := r.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	types := make(map[models.AchievementType]bool, len(achievements))
	for _, a := range achievements {
		types[a.Type] = true
	}
	return types, nil
}

func (r *AchievementRepository) Unlock(userID string, t models.AchievementType) error {
	return r.DB.Create(&models.Achievement{UserID: userID, Type: t}).Error
}
