package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuscare/counselling-api/internal/config"
	dbpkg "github.com/campuscare/counselling-api/internal/db"
	"github.com/campuscare/counselling-api/internal/infra/slotlock"
	"github.com/campuscare/counselling-api/internal/middleware"
	"github.com/campuscare/counselling-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	var lock slotlock.Locker = slotlock.NewMemoryLocker()
	if client, err := slotlock.NewRedisClient(cfg.RedisURL); err != nil {
		log.Printf("redis config invalid (%v), using in-process slot lock", err)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable (%v), using in-process slot lock", err)
		} else {
			lock = slotlock.NewRedisLocker(
				client,
				time.Duration(cfg.SlotLockTTLMs)*time.Millisecond,
			)
		}
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, lock)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
