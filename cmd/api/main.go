package main

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ethan-geography-nea/price-paid/internal/api/handlers"
	"github.com/ethan-geography-nea/price-paid/internal/api/middleware"
)

type serverConfig struct {
	Port string `env:"API_PORT" envDefault:"8080"`
	Env  string `env:"API_ENV" envDefault:"development"`
}

func main() {
	logger := logrus.New()

	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Fatalf("parse server config: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())

	rankHandler := handlers.NewRankHandler(logger)
	analyseHandler := handlers.NewAnalyseHandler(logger)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/rank", rankHandler.RankProperties)
		api.POST("/analyse", analyseHandler.RunAnalysis)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Infof("starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
