package repositories

import (
	"errors"

	"brainrank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository struct {
	DB *gorm.DB
}

// UpsertStats replaces the user's aggregate row with freshly recomputed
// values. Stats are never adjusted incrementally.
func (r *StatsRepository) UpsertStats(stats *models.UserStats) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_games_played", "total_score_sum", "rank_by_game_count"}),
	}).Create(stats).Error
}

func (r *StatsRepository) GetStatsForUser(userID string) (*models.UserStats, error) {
	var stats models.UserStats
	err := r.DB.First(&stats, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
