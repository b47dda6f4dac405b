package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementType string

const (
	AchievementFirstScore AchievementType = "FIRST_SCORE"
	AchievementFiveGames  AchievementType = "FIVE_GAMES"
	AchievementTenGames   AchievementType = "TEN_GAMES"
	AchievementTop10      AchievementType = "TOP_10"

	// Display-only types. They appear in the dashboard grid but nothing
	// unlocks them.
	AchievementStreakMaster  AchievementType = "STREAK_MASTER"
	AchievementPerfectionist AchievementType = "PERFECTIONIST"
)

// Achievement rows are append-only: once unlocked, never revoked, even if the
// triggering condition later stops holding.
type Achievement struct {
	ID         string          `gorm:"primaryKey" json:"id"`
	UserID     string          `gorm:"not null;uniqueIndex:idx_achievements_user_type" json:"userId"`
	Type       AchievementType `gorm:"not null;uniqueIndex:idx_achievements_user_type" json:"type"`
	UnlockedAt time.Time       `gorm:"autoCreateTime" json:"unlockedAt"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
