package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/buildinfo"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/cli"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/client/config"
	"github.com/Vraj-Prajapati-14/LearnSphere-Frontend/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout, "LearnSphere")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
