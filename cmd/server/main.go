package main

import (
	"log"
	"net/http"
	"time"

	"brainrank/internal/config"
	"brainrank/internal/handlers"
	appmw "brainrank/internal/middleware"
	"brainrank/internal/metrics"
	"brainrank/internal/models"
	"brainrank/internal/repositories"
	"brainrank/internal/routers"
	"brainrank/internal/seed"
	"brainrank/internal/services"
	"brainrank/internal/session"
	"brainrank/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Score{},
		&models.UserStats{},
		&models.Achievement{},
		&models.Friendship{},
		&models.PasswordResetToken{},
	); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}
	if n, err := seed.Games(db); err != nil {
		logger.Fatal("failed to seed games", zap.Error(err))
	} else {
		logger.Info("game catalog ready", zap.Int("games", n))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	sessions := session.NewStore(rdb, cfg.SessionTTL)
	auth := &appmw.Authenticator{
		Sessions:   sessions,
		CookieName: cfg.CookieName,
		JWTSecret:  cfg.SessionSecret,
	}

	userRepo := &repositories.UserRepository{DB: db}
	gameRepo := &repositories.GameRepository{DB: db}
	statsRepo := &repositories.StatsRepository{DB: db}
	tokenRepo := &repositories.TokenRepository{DB: db}

	scoreService := &services.ScoreService{DB: db, Logger: logger}
	leaderboardService := &services.LeaderboardService{DB: db}
	friendService := &services.FriendService{DB: db, Logger: logger}

	authHandler := &handlers.AuthHandler{
		Users: userRepo, Stats: statsRepo, Tokens: tokenRepo,
		Sessions: sessions, Cfg: cfg, Logger: logger,
	}
	userHandler := &handlers.UserHandler{Users: userRepo, Logger: logger}
	scoreHandler := &handlers.ScoreHandler{Scores: scoreService, Logger: logger}
	leaderboardHandler := &handlers.LeaderboardHandler{
		Leaderboards: leaderboardService, Games: gameRepo, Logger: logger,
	}
	friendHandler := &handlers.FriendHandler{Friends: friendService, Logger: logger}

	// Hourly sweep of expired password reset tokens.
	c := cron.New()
	c.AddFunc("@hourly", func() {
		if n, err := tokenRepo.DeleteExpired(time.Now()); err != nil {
			logger.Warn("reset token sweep failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("swept expired reset tokens", zap.Int64("deleted", n))
		}
	})
	c.Start()
	defer c.Stop()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	r.Method("GET", "/metrics", metrics.Handler())
	r.Get("/api/games", func(w http.ResponseWriter, _ *http.Request) {
		games, err := gameRepo.ListGames()
		if err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "Failed to fetch games")
			return
		}
		utils.JSON(w, http.StatusOK, games)
	})

	routers.AuthRoutes(r, authHandler, auth)
	routers.UserRoutes(r, userHandler, auth)
	routers.ScoreRoutes(r, scoreHandler, auth)
	routers.LeaderboardRoutes(r, leaderboardHandler)
	routers.FriendRoutes(r, friendHandler, leaderboardHandler, auth)

	addr := ":" + cfg.Port
	log.Printf("brainrank listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
