package repositories

import (
	"errors"

	"brainrank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrScoreNotFound = errors.New("score not found")

type ScoreRepository struct {
	DB *gorm.DB
}

func (r *ScoreRepository) GetScoreByID(scoreID string) (*models.Score, error) {
	var score models.Score
	err := r.DB.First(&score, "id = ?", scoreID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScoreNotFound
	}
	return &score, err
}

func (r *ScoreRepository) GetScoreForUserAndGame(userID, gameID string) (*models.Score, error) {
	var score models.Score
	err := r.DB.First(&score, "user_id = ? AND game_id = ?", userID, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScoreNotFound
	}
	return &score, err
}

// UpsertScore records a personal best: insert on first submission, otherwise
// overwrite score and achieved_at for the existing (user, game) row.
func (r *ScoreRepository) UpsertScore(score *models.Score) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "achieved_at"}),
	}).Create(score).Error
}

func (r *ScoreRepository) DeleteScore(scoreID string) error {
	result := r.DB.Delete(&models.Score{}, "id = ?", scoreID)
	if result.Error == nil && result.RowsAffected == 0 {
		return ErrScoreNotFound
	}
	return result.Error
}

// TopScoreForGame returns the current leader's score row for a game with the
// scorer preloaded. Ties break toward the earliest achievement.
func (r *ScoreRepository) TopScoreForGame(gameID string) (*models.Score, error) {
	var score models.Score
	err := r.DB.Preload("User").
		Where("game_id = ?", gameID).
		Order("score DESC").Order("achieved_at ASC").
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScoreNotFound
	}
	return &score, err
}

// ListScoresForGame returns every score for a game, best first. When userIDs
// is non-nil the result is restricted to those users.
func (r *ScoreRepository) ListScoresForGame(gameID string, userIDs []string) ([]models.Score, error) {
	q := r.DB.Preload("User").
		Where("game_id = ?", gameID).
		Order("score DESC").Order("achieved_at ASC")
	if userIDs != nil {
		q = q.Where("user_id IN ?", userIDs)
	}
	var scores []models.Score
	err := q.Find(&scores).Error
	return scores, err
}

func (r *ScoreRepository) ListScoresForUser(userID string) ([]models.Score, error) {
	var scores []models.Score
	err := r.DB.Preload("Game").
		Where("user_id = ?", userID).
		Order("achieved_at DESC").
		Find(&scores).Error
	return scores, err
}

// BestScoreForUser returns the user's single highest-valued score with the
// game preloaded, or nil when the user has no scores.
func (r *ScoreRepository) BestScoreForUser(userID string) (*models.Score, error) {
	var score models.Score
	err := r.DB.Preload("Game").
		Where("user_id = ?", userID).
		Order("score DESC").Order("achieved_at ASC").
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// UserAggregate is a per-user rollup of the scores table.
type UserAggregate struct {
	UserID     string
	GameCount  int
	TotalScore int64
}

// AggregateByUser groups scores by user, counting distinct games and summing
// score values. When userIDs is non-nil only those users are included.
func (r *ScoreRepository) AggregateByUser(userIDs []string) ([]UserAggregate, error) {
	q := r.DB.Model(&models.Score{}).
		Select("user_id, COUNT(DISTINCT game_id) AS game_count, SUM(score) AS total_score").
		Group("user_id")
	if userIDs != nil {
		q = q.Where("user_id IN ?", userIDs)
	}
	var aggs []UserAggregate
	err := q.Scan(&aggs).Error
	return aggs, err
}

// GameCountsByUser returns every scoring user's distinct-game count ordered by
// count descending, ties by user id for a stable rank.
func (r *ScoreRepository) GameCountsByUser() ([]UserAggregate, error) {
	var aggs []UserAggregate
	err := r.DB.Model(&models.Score{}).
		Select("user_id, COUNT(DISTINCT game_id) AS game_count").
		Group("user_id").
		Order("game_count DESC").Order("user_id ASC").
		Scan(&aggs).Error
	return aggs, err
}

// ListAllScores returns every score with scorer and game preloaded, grouped by
// game and best first within a game. The champions views walk this once.
func (r *ScoreRepository) ListAllScores() ([]models.Score, error) {
	var scores []models.Score
	err := r.DB.Preload("User").Preload("Game").
		Order("game_id ASC").Order("score DESC").Order("achieved_at ASC").
		Find(&scores).Error
	return scores, err
}
