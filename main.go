package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridblitz/config"
	"gridblitz/database"
	"gridblitz/handlers"
	"gridblitz/logging"
	"gridblitz/metrics"
	"gridblitz/middleware"
	"gridblitz/services"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		Prefix:      cfg.Logging.Prefix,
		EnableColor: cfg.Logging.EnableColor,
	})
	cfg.LogConfiguration()

	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	})
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	// Repositories create their indexes up front.
	teamRepo := database.NewMongoTeamRepository(db)
	playerRepo := database.NewMongoPlayerRepository(db)
	seasonRepo := database.NewMongoSeasonRepository(db)
	gameRepo := database.NewMongoGameRepository(db)
	eventRepo := database.NewMongoEventRepository(db)
	standingsRepo := database.NewMongoStandingsRepository(db)

	seeder := services.NewLeagueSeeder(teamRepo, playerRepo, seasonRepo, gameRepo, standingsRepo, cfg.Sim.MasterSeed)

	startupCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := seeder.EnsureLeague(startupCtx); err != nil {
		cancel()
		logging.Fatalf("League seeding failed: %v", err)
	}
	season, err := seeder.EnsureSeason(startupCtx)
	cancel()
	if err != nil {
		logging.Fatalf("Season bootstrap failed: %v", err)
	}
	logging.Infof("Active season %d, week %d (%s)", season.SeasonNumber, season.CurrentWeek, season.Status)

	seasonService := services.NewSeasonService(
		seasonRepo, gameRepo, eventRepo, teamRepo, playerRepo, standingsRepo, seeder,
		services.SeasonServiceConfig{
			TickBudget:   cfg.Sim.TickBudget,
			GameGap:      cfg.Sim.GameGap,
			WeekGap:      cfg.Sim.WeekGap,
			OffseasonGap: cfg.Sim.OffseasonGap,
		})
	gameService := services.NewGameService(gameRepo, seasonRepo, standingsRepo)
	broadcastService := services.NewBroadcastService(gameRepo, eventRepo)

	simulateHandler := handlers.NewSimulateHandler(seasonService)
	gameHandler := handlers.NewGameHandler(gameService)
	streamHandler := handlers.NewStreamHandler(broadcastService, cfg.Broadcast, cfg.Sim.GameGap)
	healthHandler := handlers.NewHealthHandler(db)

	r := mux.NewRouter()
	r.Use(middleware.SecurityMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/simulate",
		middleware.CronAuth(cfg.Server.CronSecret)(
			metrics.Middleware("/api/simulate", http.HandlerFunc(simulateHandler.Simulate)))).Methods("POST")
	api.Handle("/game/current",
		metrics.Middleware("/api/game/current", http.HandlerFunc(gameHandler.GetCurrentGame))).Methods("GET")
	api.Handle("/game/{gameId}/stream", http.HandlerFunc(streamHandler.StreamGame)).Methods("GET")
	api.Handle("/game/{gameId}/verify",
		metrics.Middleware("/api/game/{gameId}/verify", http.HandlerFunc(gameHandler.VerifyGame))).Methods("GET")
	api.Handle("/game/{gameId}",
		metrics.Middleware("/api/game/{gameId}", http.HandlerFunc(gameHandler.GetGame))).Methods("GET")
	api.Handle("/games/week/{week}",
		metrics.Middleware("/api/games/week/{week}", http.HandlerFunc(gameHandler.GetWeekGames))).Methods("GET")
	api.Handle("/standings",
		metrics.Middleware("/api/standings", http.HandlerFunc(gameHandler.GetStandings))).Methods("GET")

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams outlive any fixed write deadline
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Fatalf("Server error: %v", err)
	}
	logging.Info("Server stopped")
}
