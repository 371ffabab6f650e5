package main

import (
	"context"
	"flag"
	"fmt"

	"psychic-poker/internal/api"
	"psychic-poker/internal/config"
	"psychic-poker/internal/repo"
	"psychic-poker/internal/service"
	"psychic-poker/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config.LoadConfig(configPath)
	conf := config.GlobalConfig

	logger.InitLogger(conf.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Starting server...", zap.String("mode", conf.Server.Mode))

	repo.InitDB()
	repo.InitRedis()

	services := service.NewContainer(repo.DB, repo.RDB, conf)
	if err := services.Start(ctx); err != nil {
		logger.Log.Fatal("failed to start services", zap.Error(err))
	}

	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	api.RegisterRoutes(r, services)

	addr := fmt.Sprintf(":%s", conf.Server.Port)
	logger.Log.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
