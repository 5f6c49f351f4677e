package main

import (
	"context"
	"log"
	"os"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/buildinfo"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout, "LearnSphere API")

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
