package main

import (
	"context"
	"os"

	"github.com/locvowork/task_management_sample/apigateway/internal/bootstrap"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		app.Close()
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.ErrorLog(ctx, "Application failed: %v", err)
		os.Exit(1)
	}
	logger.InfoLog(ctx, "Application exited")
}
