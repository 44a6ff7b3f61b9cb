package main

import (
	"net/http"

	"uniform-tracker-api/config"
	"uniform-tracker-api/internal/database"
	"uniform-tracker-api/internal/logs"
	"uniform-tracker-api/internal/technician"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logs.NewLogger(cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg, nil)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(cfg)

	technicianService := technician.NewTechnicianService(db)
	technician.RegisterRoutes(r, technicianService)

	logService := &logs.LogService{DB: db}
	logs.RegisterRoutes(r, logService)

	logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("client_url", cfg.ClientURL))
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newRouter(cfg config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}
