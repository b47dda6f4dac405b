package repositories

import (
	"errors"

	"brainrank/internal/models"

	"gorm.io/gorm"
)

var ErrGameNotFound = errors.New("game not found")

type GameRepository struct {
	DB *gorm.DB
}

func (r *GameRepository) GetGameByID(gameID string) (*models.Game, error) {
	var game models.Game
	err := r.DB.First(&game, "id = ?", gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	return &game, err
}

func (r *GameRepository) GetGameByName(name string) (*models.Game, error) {
	var game models.Game
	err := r.DB.First(&game, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	return &game, err
}

func (r *GameRepository) ListGames() ([]models.Game, error) {
	var games []models.Game
	err := r.DB.Order("name ASC").Find(&games).Error
	return games, err
}

// EnsureGame creates the game if no game with that name exists yet. Existing
// rows are left untouched so the seed stays idempotent.
func (r *GameRepository) EnsureGame(game *models.Game) error {
	var existing models.Game
	err := r.DB.First(&existing, "name = ?", game.Name).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.DB.Create(game).Error
}
