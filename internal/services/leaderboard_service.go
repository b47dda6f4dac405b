package services

import (
	"sort"
	"time"

	"brainrank/internal/models"
	"brainrank/internal/repositories"

	"gorm.io/gorm"
)

// LeaderboardEntry is one row of the global or friends leaderboard.
type LeaderboardEntry struct {
	UserID     string  `json:"userId"`
	Username   string  `json:"username"`
	AvatarURL  *string `json:"avatarUrl"`
	GameCount  int     `json:"gameCount"`
	TotalScore int64   `json:"totalScore"`
	BestGame   *string `json:"bestGame"`
}

// GameLeaderboardEntry is one row of a single game's ranking.
type GameLeaderboardEntry struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	AvatarURL  *string   `json:"avatarUrl"`
	Score      int64     `json:"score"`
	AchievedAt time.Time `json:"achievedAt"`
	GameCount  int       `json:"gameCount"`
}

// Champion is the current leader of one game.
type Champion struct {
	GameID     string              `json:"gameId"`
	GameName   string              `json:"gameName"`
	Category   models.GameCategory `json:"category"`
	UserID     string              `json:"userId"`
	Username   string              `json:"username"`
	AvatarURL  *string             `json:"avatarUrl"`
	Score      int64               `json:"score"`
	AchievedAt time.Time           `json:"achievedAt"`
}

// UserChampion aggregates Champions by user: how many games they lead.
type UserChampion struct {
	UserID       string   `json:"userId"`
	Username     string   `json:"username"`
	AvatarURL    *string  `json:"avatarUrl"`
	GamesLed     int      `json:"gamesLed"`
	LeadingGames []string `json:"leadingGames"`
}

// GameComparison classifies one game from the first user's perspective.
type GameComparison struct {
	GameID      string `json:"gameId"`
	GameName    string `json:"gameName"`
	UserScore   *int64 `json:"userScore"`
	FriendScore *int64 `json:"friendScore"`
	Result      string `json:"result"` // win, loss, tie, not_played
}

// ComparisonSummary is the full head-to-head view between two users.
type ComparisonSummary struct {
	Comparisons []GameComparison `json:"comparisons"`
	Record      struct {
		Wins   int `json:"wins"`
		Losses int `json:"losses"`
	} `json:"record"`
	UserGamesCount   int `json:"userGamesCount"`
	FriendGamesCount int `json:"friendGamesCount"`
}

// LeaderboardService is read-only: it aggregates the scores table into the
// ranking views. No method mutates anything.
type LeaderboardService struct {
	DB *gorm.DB
}

// Global ranks every scoring user by distinct-game count. Breadth of play
// outranks score magnitude; ties fall back to total score, then username.
func (s *LeaderboardService) Global() ([]LeaderboardEntry, error) {
	return s.aggregate(nil)
}

// Friends is Global restricted to the user's friend closure plus themselves.
func (s *LeaderboardService) Friends(userID string) ([]LeaderboardEntry, error) {
	ids, err := s.friendClosure(userID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(append(ids, userID))
}

func (s *LeaderboardService) aggregate(userIDs []string) ([]LeaderboardEntry, error) {
	scores := &repositories.ScoreRepository{DB: s.DB}
	users := &repositories.UserRepository{DB: s.DB}

	aggs, err := scores.AggregateByUser(userIDs)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(aggs))
	for _, agg := range aggs {
		ids = append(ids, agg.UserID)
	}
	byID, err := users.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(aggs))
	for _, agg := range aggs {
		entry := LeaderboardEntry{
			UserID:     agg.UserID,
			Username:   "Unknown",
			GameCount:  agg.GameCount,
			TotalScore: agg.TotalScore,
		}
		if u, ok := byID[agg.UserID]; ok {
			entry.Username = u.Username
			entry.AvatarURL = u.AvatarURL
		}
		best, err := scores.BestScoreForUser(agg.UserID)
		if err != nil {
			return nil, err
		}
		if best != nil && best.Game != nil {
			entry.BestGame = &best.Game.Name
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].GameCount != entries[j].GameCount {
			return entries[i].GameCount > entries[j].GameCount
		}
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Username < entries[j].Username
	})
	return entries, nil
}

// ForGame ranks one game's scores best first. When friendsOf is non-empty the
// board is restricted to that user's friend closure plus themselves.
func (s *LeaderboardService) ForGame(gameID, friendsOf string) ([]GameLeaderboardEntry, error) {
	scores := &repositories.ScoreRepository{DB: s.DB}

	var scope []string
	if friendsOf != "" {
		ids, err := s.friendClosure(friendsOf)
		if err != nil {
			return nil, err
		}
		scope = append(ids, friendsOf)
	}

	rows, err := scores.ListScoresForGame(gameID, scope)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []GameLeaderboardEntry{}, nil
	}

	scorerIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		scorerIDs = append(scorerIDs, row.UserID)
	}
	aggs, err := scores.AggregateByUser(scorerIDs)
	if err != nil {
		return nil, err
	}
	countByUser := make(map[string]int, len(aggs))
	for _, agg := range aggs {
		countByUser[agg.UserID] = agg.GameCount
	}

	entries := make([]GameLeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry := GameLeaderboardEntry{
			UserID:     row.UserID,
			Username:   "Unknown",
			Score:      row.Score,
			AchievedAt: row.AchievedAt,
			GameCount:  countByUser[row.UserID],
		}
		if row.User != nil {
			entry.Username = row.User.Username
			entry.AvatarURL = row.User.AvatarURL
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Champions returns every game's current leader, ordered by game name.
func (s *LeaderboardService) Champions() ([]Champion, error) {
	scores := &repositories.ScoreRepository{DB: s.DB}

	rows, err := scores.ListAllScores()
	if err != nil {
		return nil, err
	}

	champions := make([]Champion, 0)
	seen := make(map[string]bool)
	for _, row := range rows {
		if seen[row.GameID] {
			continue
		}
		seen[row.GameID] = true
		champ := Champion{
			GameID:     row.GameID,
			UserID:     row.UserID,
			Username:   "Unknown",
			Score:      row.Score,
			AchievedAt: row.AchievedAt,
		}
		if row.Game != nil {
			champ.GameName = row.Game.Name
			champ.Category = row.Game.Category
		}
		if row.User != nil {
			champ.Username = row.User.Username
			champ.AvatarURL = row.User.AvatarURL
		}
		champions = append(champions, champ)
	}

	sort.SliceStable(champions, func(i, j int) bool {
		return champions[i].GameName < champions[j].GameName
	})
	return champions, nil
}

// UserChampions regroups Champions by user, most games led first.
func (s *LeaderboardService) UserChampions() ([]UserChampion, error) {
	champions, err := s.Champions()
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*UserChampion)
	order := make([]string, 0)
	for _, champ := range champions {
		uc, ok := byUser[champ.UserID]
		if !ok {
			uc = &UserChampion{
				UserID:    champ.UserID,
				Username:  champ.Username,
				AvatarURL: champ.AvatarURL,
			}
			byUser[champ.UserID] = uc
			order = append(order, champ.UserID)
		}
		uc.GamesLed++
		uc.LeadingGames = append(uc.LeadingGames, champ.GameName)
	}

	result := make([]UserChampion, 0, len(order))
	for _, id := range order {
		result = append(result, *byUser[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].GamesLed != result[j].GamesLed {
			return result[i].GamesLed > result[j].GamesLed
		}
		return result[i].Username < result[j].Username
	})
	return result, nil
}

// Compare unions the games either user has scored and classifies each from
// the first user's perspective.
func (s *LeaderboardService) Compare(userID, friendID string) (*ComparisonSummary, error) {
	scores := &repositories.ScoreRepository{DB: s.DB}

	userScores, err := scores.ListScoresForUser(userID)
	if err != nil {
		return nil, err
	}
	friendScores, err := scores.ListScoresForUser(friendID)
	if err != nil {
		return nil, err
	}

	userByGame := make(map[string]models.Score, len(userScores))
	for _, sc := range userScores {
		userByGame[sc.GameID] = sc
	}
	friendByGame := make(map[string]models.Score, len(friendScores))
	for _, sc := range friendScores {
		friendByGame[sc.GameID] = sc
	}

	gameIDs := make([]string, 0, len(userByGame)+len(friendByGame))
	seen := make(map[string]bool)
	for _, sc := range userScores {
		if !seen[sc.GameID] {
			seen[sc.GameID] = true
			gameIDs = append(gameIDs, sc.GameID)
		}
	}
	for _, sc := range friendScores {
		if !seen[sc.GameID] {
			seen[sc.GameID] = true
			gameIDs = append(gameIDs, sc.GameID)
		}
	}

	summary := &ComparisonSummary{
		Comparisons:      make([]GameComparison, 0, len(gameIDs)),
		UserGamesCount:   len(userScores),
		FriendGamesCount: len(friendScores),
	}
	for _, gameID := range gameIDs {
		comparison := GameComparison{GameID: gameID, GameName: "Unknown", Result: "not_played"}

		us, hasUser := userByGame[gameID]
		fs, hasFriend := friendByGame[gameID]
		if hasUser && us.Game != nil {
			comparison.GameName = us.Game.Name
		} else if hasFriend && fs.Game != nil {
			comparison.GameName = fs.Game.Name
		}
		if hasUser {
			v := us.Score
			comparison.UserScore = &v
		}
		if hasFriend {
			v := fs.Score
			comparison.FriendScore = &v
		}

		switch {
		case hasUser && hasFriend && us.Score > fs.Score:
			comparison.Result = "win"
		case hasUser && hasFriend && us.Score < fs.Score:
			comparison.Result = "loss"
		case hasUser && hasFriend:
			comparison.Result = "tie"
		case hasUser:
			comparison.Result = "win"
		case hasFriend:
			comparison.Result = "loss"
		}

		if comparison.Result == "win" {
			summary.Record.Wins++
		}
		if comparison.Result == "loss" {
			summary.Record.Losses++
		}
		summary.Comparisons = append(summary.Comparisons, comparison)
	}

	sort.SliceStable(summary.Comparisons, func(i, j int) bool {
		return summary.Comparisons[i].GameName < summary.Comparisons[j].GameName
	})
	return summary, nil
}

func (s *LeaderboardService) friendClosure(userID string) ([]string, error) {
	friendships := &repositories.FriendshipRepository{DB: s.DB}
	edges, err := friendships.AcceptedFor(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for _, edge := range edges {
		if edge.UserID == userID {
			ids = append(ids, edge.FriendID)
		} else {
			ids = append(ids, edge.UserID)
		}
	}
	return ids, nil
}
