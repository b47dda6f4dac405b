package seed

import (
	_ "embed"
	"fmt"

	"brainrank/internal/models"
	"brainrank/internal/repositories"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed games.yaml
var gamesYAML []byte

type catalogEntry struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

type catalog struct {
	Games []catalogEntry `yaml:"games"`
}

// Games seeds the embedded game catalog. Existing games are left untouched,
// so running it on every startup is safe.
func Games(db *gorm.DB) (int, error) {
	var c catalog
	if err := yaml.Unmarshal(gamesYAML, &c); err != nil {
		return 0, fmt.Errorf("parse game catalog: %w", err)
	}

	repo := &repositories.GameRepository{DB: db}
	for _, entry := range c.Games {
		game := &models.Game{
			Name:        entry.Name,
			Category:    models.GameCategory(entry.Category),
			Description: entry.Description,
		}
		if err := repo.EnsureGame(game); err != nil {
			return 0, fmt.Errorf("seed game %q: %w", entry.Name, err)
		}
	}
	return len(c.Games), nil
}
