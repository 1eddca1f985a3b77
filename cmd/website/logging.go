package main

import (
	"log/slog"
	"os"

	"github.com/adampresley/imagegallery/cmd/website/internal/configuration"
	"github.com/charmbracelet/log"
)

func setupLogger(config *configuration.Config, version string) {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    version == "development",
		Formatter:       log.TextFormatter,
	})

	if version != "development" {
		handler.SetFormatter(log.JSONFormatter)
	}

	slog.SetDefault(slog.New(handler))
}
