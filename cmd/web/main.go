package main

import (
	"context"
	"log/slog"
	"os"

	"commonui/internal/app"
	"commonui/internal/infrastructure"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	code := 0
	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		code = 1
	}

	_ = infrastructure.CloseLogFile()
	os.Exit(code)
}
