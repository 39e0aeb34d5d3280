package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/SnooSpace/discover-service/internal/api"
	"github.com/SnooSpace/discover-service/internal/service"
	"github.com/SnooSpace/discover-service/internal/store"
)

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

func main() {
	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "5432")
	dbName := envOrDefault("DB_NAME", "snoospace_db")
	dbUser := envOrDefault("DB_USER", "snoospace_user")
	dbPass := envOrDefault("DB_PASS", "snoospace")
	redisAddr := envOrDefault("REDIS_ADDR", "localhost:6379")
	jwtSecret := envOrDefault("JWT_SECRET", "dev-only-secret")
	port := envOrDefault("PORT", "8080")

	pgUrl := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", pgUrl)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	// simple ping + wait (db might be starting in docker)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Printf("waiting for db: attempt %d, err: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("could not connect to db: %v", err)
	}

	// ensure tables exist (run migrations)
	if err := store.RunMigrations(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis ping failed, impression counters disabled: %v", err)
	}

	repo := store.NewPgStore(db)
	svc := service.NewService(repo, rdb)
	handler := api.NewHandler(svc)

	router := gin.Default()
	api.RegisterRoutes(router, handler, []byte(jwtSecret))

	log.Printf("listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
