package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"solo-quiz-service/internal/app"
	"solo-quiz-service/internal/config"
	"solo-quiz-service/internal/domain"
	"solo-quiz-service/internal/infra/memory"
	pgloader "solo-quiz-service/internal/infra/postgres"
	redisinfra "solo-quiz-service/internal/infra/redis"
	sqliteinfra "solo-quiz-service/internal/infra/sqlite"
	transport "solo-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalogs())
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogs app.CatalogRepository
	if redisClient != nil {
		catalogs = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var users app.UserStore
	switch {
	case cfg.SQLite.Path != "":
		db, err := sqliteinfra.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		users = sqliteinfra.NewUserStore(db)
	case redisClient != nil:
		users = redisinfra.NewUserStore(redisClient)
	default:
		users = memory.NewUserStore()
	}

	service := app.NewQuizService(catalogs, users)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting solo-quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCatalogs provides a minimal question bank; configure Postgres to swap
// in a real one.
func sampleCatalogs() map[string]domain.Catalog {
	return map[string]domain.Catalog{
		"general": {
			ID:    "general",
			Title: "General Knowledge",
			Questions: []domain.Question{
				{
					Text:          "Which planet is known as the Red Planet?",
					Options:       []string{"Venus", "Mars", "Jupiter", "Mercury"},
					CorrectOption: 1,
				},
				{
					Text:          "What is the largest ocean on Earth?",
					Options:       []string{"Atlantic", "Indian", "Pacific", "Arctic"},
					CorrectOption: 2,
				},
				{
					Text:          "How many continents are there?",
					Options:       []string{"five", "six", "seven", "eight"},
					CorrectOption: 2,
				},
			},
		},
	}
}
