package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inboxdash/config"
	"inboxdash/server"
	"inboxdash/utils"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	flag.Parse()

	utils.Log.Info("Initializing Inbox Command Center...")

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	utils.Log.SetLevel(utils.ParseLevel(cfg.Server.LogLevel))
	defer utils.Log.Sync()

	app, err := server.New(cfg)
	if err != nil {
		utils.Log.Error("Failed to build server: %v", err)
		os.Exit(1)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		utils.Log.Info("Shutting down...")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			utils.Log.Error("Error during shutdown: %v", err)
		}
	}()

	// Start server
	utils.Log.WithField("backend", cfg.Backend.URL).Info("Starting server on port %d...", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
		os.Exit(1)
	}
}
