package services

import (
	"time"

	"brainrank/internal/models"
	"brainrank/internal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result is the uniform outcome shape for mutating operations.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitResult extends Result with leadership-change details for the client's
// celebratory messaging.
type SubmitResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	NewLeader      bool   `json:"newLeader,omitempty"`
	GameName       string `json:"gameName,omitempty"`
	IsFirstLeader  bool   `json:"isFirstLeader,omitempty"`
	PreviousLeader string `json:"previousLeader,omitempty"`
}

// ScoreService owns the score update pipeline: accept a submission only when
// it beats the user's personal best, then keep derived state consistent.
type ScoreService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// SubmitScore applies a candidate score. The best-score check, leader check,
// upsert, stats recompute and achievement evaluation all run inside one
// transaction so concurrent submissions cannot interleave between the read
// and the write.
func (s *ScoreService) SubmitScore(userID, gameID string, score int64, achievedAt *time.Time) SubmitResult {
	if score <= 0 {
		return SubmitResult{Success: false, Message: "Score must be a positive number"}
	}

	var out SubmitResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		games := &repositories.GameRepository{DB: tx}
		scores := &repositories.ScoreRepository{DB: tx}

		game, err := games.GetGameByID(gameID)
		if err == repositories.ErrGameNotFound {
			out = SubmitResult{Success: false, Message: "Game not found"}
			return nil
		}
		if err != nil {
			return err
		}

		existing, err := scores.GetScoreForUserAndGame(userID, gameID)
		if err != nil && err != repositories.ErrScoreNotFound {
			return err
		}
		if existing != nil && existing.Score >= score {
			out = SubmitResult{Success: false, Message: "New score must be higher than existing score"}
			return nil
		}

		// Leadership is judged against the state immediately before this
		// write.
		top, err := scores.TopScoreForGame(gameID)
		if err != nil && err != repositories.ErrScoreNotFound {
			return err
		}

		var newLeader, isFirstLeader bool
		var previousLeader string
		if top == nil {
			newLeader = true
			isFirstLeader = true
		} else if top.UserID != userID && score > top.Score {
			newLeader = true
			if top.User != nil {
				previousLeader = top.User.Username
			}
		}

		when := time.Now()
		if achievedAt != nil {
			when = *achievedAt
		}
		if err := scores.UpsertScore(&models.Score{
			UserID:     userID,
			GameID:     gameID,
			Score:      score,
			AchievedAt: when,
		}); err != nil {
			return err
		}

		rank, err := recomputeStats(tx, userID)
		if err != nil {
			return err
		}
		if err := evaluateAchievements(tx, userID, rank); err != nil {
			return err
		}

		out = SubmitResult{
			Success:        true,
			Message:        "Score submitted successfully",
			NewLeader:      newLeader,
			GameName:       game.Name,
			IsFirstLeader:  isFirstLeader,
			PreviousLeader: previousLeader,
		}
		if !newLeader {
			out.GameName = ""
		}
		return nil
	})
	if err != nil {
		s.Logger.Error("failed to submit score",
			zap.String("userId", userID), zap.String("gameId", gameID), zap.Error(err))
		return SubmitResult{Success: false, Message: "Failed to submit score"}
	}
	return out
}

// DeleteScore removes one of the caller's own scores and recomputes derived
// state. Achievements are re-evaluated but never retracted.
func (s *ScoreService) DeleteScore(userID, scoreID string) Result {
	var out Result
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		scores := &repositories.ScoreRepository{DB: tx}

		score, err := scores.GetScoreByID(scoreID)
		if err == repositories.ErrScoreNotFound {
			out = Result{Success: false, Message: "Score not found"}
			return nil
		}
		if err != nil {
			return err
		}
		if score.UserID != userID {
			out = Result{Success: false, Message: "Unauthorized: you can only delete your own scores"}
			return nil
		}

		if err := scores.DeleteScore(scoreID); err != nil {
			return err
		}
		rank, err := recomputeStats(tx, userID)
		if err != nil {
			return err
		}
		if err := evaluateAchievements(tx, userID, rank); err != nil {
			return err
		}
		out = Result{Success: true, Message: "Score deleted successfully"}
		return nil
	})
	if err != nil {
		s.Logger.Error("failed to delete score",
			zap.String("userId", userID), zap.String("scoreId", scoreID), zap.Error(err))
		return Result{Success: false, Message: "Failed to delete score"}
	}
	return out
}

// UserScores lists the user's personal bests, newest first, games preloaded.
func (s *ScoreService) UserScores(userID string) ([]models.Score, error) {
	scores := &repositories.ScoreRepository{DB: s.DB}
	return scores.ListScoresForUser(userID)
}

// UserAchievements lists everything the user has unlocked.
func (s *ScoreService) UserAchievements(userID string) ([]models.Achievement, error) {
	achievements := &repositories.AchievementRepository{DB: s.DB}
	return achievements.ListForUser(userID)
}

// UserStats returns the cached aggregate row, or nil before the first write.
func (s *ScoreService) UserStats(userID string) (*models.UserStats, error) {
	stats := &repositories.StatsRepository{DB: s.DB}
	return stats.GetStatsForUser(userID)
}

// recomputeStats rebuilds the user's aggregate row from the scores table and
// returns the freshly computed rank (0 when the user has no scores).
func recomputeStats(tx *gorm.DB, userID string) (int, error) {
	scores := &repositories.ScoreRepository{DB: tx}
	stats := &repositories.StatsRepository{DB: tx}

	aggs, err := scores.AggregateByUser([]string{userID})
	if err != nil {
		return 0, err
	}
	var gameCount int
	var totalScore int64
	if len(aggs) > 0 {
		gameCount = aggs[0].GameCount
		totalScore = aggs[0].TotalScore
	}

	counts, err := scores.GameCountsByUser()
	if err != nil {
		return 0, err
	}
	rank := 0
	for i, agg := range counts {
		if agg.UserID == userID {
			rank = i + 1
			break
		}
	}

	err = stats.UpsertStats(&models.UserStats{
		UserID:           userID,
		TotalGamesPlayed: gameCount,
		TotalScoreSum:    totalScore,
		RankByGameCount:  rank,
	})
	return rank, err
}

// evaluateAchievements unions the user's unlocked set with every type whose
// condition currently holds. Members are only ever added.
func evaluateAchievements(tx *gorm.DB, userID string, rank int) error {
	scores := &repositories.ScoreRepository{DB: tx}
	achievements := &repositories.AchievementRepository{DB: tx}

	aggs, err := scores.AggregateByUser([]string{userID})
	if err != nil {
		return err
	}
	gameCount := 0
	if len(aggs) > 0 {
		gameCount = aggs[0].GameCount
	}

	unlocked, err := achievements.TypesForUser(userID)
	if err != nil {
		return err
	}

	unlock := func(t models.AchievementType, qualifies bool) error {
		if !qualifies || unlocked[t] {
			return nil
		}
		return achievements.Unlock(userID, t)
	}
	if err := unlock(models.AchievementFirstScore, gameCount >= 1); err != nil {
		return err
	}
	if err := unlock(models.AchievementFiveGames, gameCount >= 5); err != nil {
		return err
	}
	if err := unlock(models.AchievementTenGames, gameCount >= 10); err != nil {
		return err
	}
	return unlock(models.AchievementTop10, rank >= 1 && rank <= 10)
}
