package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GameCategory string

const (
	CategoryAttention      GameCategory = "ATTENTION"
	CategoryMemory         GameCategory = "MEMORY"
	CategoryFlexibility    GameCategory = "FLEXIBILITY"
	CategorySpeed          GameCategory = "SPEED"
	CategoryProblemSolving GameCategory = "PROBLEM_SOLVING"
)

// Game is immutable reference data, seeded once at startup.
type Game struct {
	ID          string       `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"unique;not null" json:"name"`
	Category    GameCategory `gorm:"not null" json:"category"`
	Description string       `json:"description"`
	IconURL     *string      `json:"iconUrl"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
