package main

import (
	"log"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/llm"
	"kiswahili-kwanza/backend/middleware"
	"kiswahili-kwanza/backend/routes"
	"kiswahili-kwanza/backend/scheduler"
	"kiswahili-kwanza/backend/utils"

	"github.com/common-nighthawk/go-figure"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// @title Kiswahili Kwanza API
// @version 1.0
// @description Swahili vocabulary learning backend for children with dyslexia
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	banner := figure.NewFigure("Kiswahili Kwanza", "", true)
	banner.Print()

	cfg := config.LoadConfig()

	logger := utils.InitLogger(cfg.LogFile)

	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := utils.AutoMigrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := seedDatabase(db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "Kiswahili Kwanza",
	})
	app.Use(cors.New())
	app.Use(middleware.LoggingMiddleware(logger))

	ollama := llm.NewClient(cfg.OllamaURL, cfg.OllamaModel)
	routes.SetupRoutes(app, db, cfg, ollama)

	sweeper := scheduler.Start(db)
	defer sweeper.Stop()

	log.Printf("listening on :%s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
