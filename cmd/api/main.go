package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/hospital-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/hospital-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/hospital-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/hospital-scheduler/internal/middleware"
	"github.com/BruksfildServices01/hospital-scheduler/internal/routes"
	"github.com/BruksfildServices01/hospital-scheduler/internal/slotlock"
	"github.com/BruksfildServices01/hospital-scheduler/internal/timezone"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	timezone.Configure(cfg.Timezone)

	db := dbpkg.NewDB(cfg)

	// Redis is optional; without it queue updates simply are not
	// broadcast.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
	}

	janitor := slotlock.NewJanitor(
		infraRepo.NewAppointmentGormRepository(db),
		cfg.LockJanitorInterval,
	)
	janitor.Start()
	defer janitor.Stop()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
