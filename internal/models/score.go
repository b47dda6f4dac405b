package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Score is a user's personal best for one game. The (UserID, GameID) pair is
// unique; submissions only ever overwrite it with a strictly higher value.
type Score struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_scores_user_game" json:"userId"`
	GameID     string    `gorm:"not null;uniqueIndex:idx_scores_user_game" json:"gameId"`
	Score      int64     `gorm:"not null" json:"score"`
	AchievedAt time.Time `gorm:"not null" json:"achievedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Game *Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

func (s *Score) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// UserStats is a denormalized aggregate recomputed from the scores table on
// every score mutation. It is never trusted over the scores themselves.
type UserStats struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	UserID           string    `gorm:"unique;not null" json:"userId"`
	TotalGamesPlayed int       `gorm:"not null;default:0" json:"totalGamesPlayed"`
	TotalScoreSum    int64     `gorm:"not null;default:0" json:"totalScoreSum"`
	RankByGameCount  int       `json:"rankByGameCount"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (s *UserStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
