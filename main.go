package main

import (
	"database/sql"
	"errors"
	"log"
	"os"
	"time"

	"smp_go/internal/auth"
	"smp_go/internal/bots"
	"smp_go/internal/comments"
	"smp_go/internal/config"
	"smp_go/internal/posts"
	"smp_go/internal/public"
	"smp_go/internal/reactions"
	"smp_go/internal/uploads"
	"smp_go/pkg/botengine"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env не обязателен: в контейнере переменные приходят из окружения.
	if err := godotenv.Load(); err == nil {
		log.Printf("[CONFIG] Загружен .env")
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация подключения к БД
	dbConn, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	// Проверка подключения
	if err := dbConn.Ping(); err != nil {
		log.Fatalf("Database ping failed: %v", err)
	}

	if err := runMigrations(dbConn); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	db := storage.NewDB(dbConn)
	engine := buildEngine(cfg, db)

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create uploads dir: %v", err)
	}

	r := setupRouter(cfg, db, engine)

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

// runMigrations применяет SQL-миграции при старте.
// Отсутствие новых миграций не является ошибкой.
func runMigrations(dbConn *sql.DB) error {
	driver, err := migratepg.WithInstance(dbConn, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	log.Printf("[DB] Миграции применены")
	return nil
}

// buildEngine собирает движок решений: хранилища, источник случайности
// и необязательный генератор комментариев.
func buildEngine(cfg config.Config, db *storage.DB) *botengine.Engine {
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		log.Printf("[ENGINE] Фиксированное зерно %d: прогон воспроизводим", seed)
	}
	rng := botengine.NewSeededRand(seed)

	engine := botengine.New(cfg.Engine, botengine.Stores{
		Bots:      db,
		Posts:     db,
		Reactions: db,
		Comments:  db,
		Ledger:    db,
	}, botengine.NewTemplateProvider(rng), rng)

	if cfg.Generator.APIKey != "" {
		engine.SetGenerator(botengine.NewOpenAIGenerator(
			cfg.Generator.APIKey, cfg.Generator.BaseURL, cfg.Generator.Model,
		))
		log.Printf("[ENGINE] Генеративные комментарии включены, модель %s", cfg.Generator.Model)
	}
	return engine
}

// Настройка маршрутов
func setupRouter(cfg config.Config, db *storage.DB, engine *botengine.Engine) *gin.Engine {
	r := gin.Default()

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	auth.SetupRoutes(r.Group("/auth"), db, cfg.Auth.JWTSecret, tokenTTL)
	posts.SetupRoutes(r.Group("/posts"), db, engine, cfg.Auth.JWTSecret)
	comments.SetupRoutes(r.Group("/comments"), db, cfg.Auth.JWTSecret)
	reactions.SetupRoutes(r.Group("/reactions"), db, cfg.Auth.JWTSecret)
	bots.SetupRoutes(r.Group("/bots"), db, engine)
	public.SetupRoutes(r.Group("/public"), db)
	uploads.SetupRoutes(r.Group("/uploads"), db, cfg.Uploads.Dir, cfg.Uploads.MaxSizeMB, cfg.Auth.JWTSecret)

	// Статика загруженных файлов
	r.Static("/files", cfg.Uploads.Dir)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
