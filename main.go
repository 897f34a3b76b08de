package main

import (
	"context"
	"fmt"
	"log"

	"invoice-dashboard/config"
	"invoice-dashboard/routes"
	"invoice-dashboard/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if cfg.SeedUserEmail != "" && cfg.SeedUserPassword != "" {
		if err := services.EnsureUser(context.Background(), db, cfg.SeedUserName, cfg.SeedUserEmail, cfg.SeedUserPassword); err != nil {
			log.Fatalf("Failed to seed user: %v", err)
		}
	}

	views := services.NewViewCache()

	digest := services.NewDigestService(db, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.DigestRecipient)
	if !cfg.DigestEnabled() {
		log.Println("Twilio not configured, pending invoice digest will only be logged")
	}
	scheduler, err := services.StartScheduler(digest, cfg.DigestSchedule, views, cfg.ViewCacheSweep)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	r := routes.SetupRouter(cfg, db, views)
	printRoutes(r)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
