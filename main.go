package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"matcharena/handlers"
	"matcharena/models"
	"matcharena/services"
	"matcharena/store"
	"matcharena/utils"
	"matcharena/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Match{},
		&models.Seat{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	gateway := store.NewGateway(db)
	userService := services.NewUserService(db)
	matchService := services.NewMatchService(gateway)
	playService := services.NewPlayService(gateway)
	viewService := services.NewViewService(gateway)
	feedService := services.NewFeedService(gateway)
	adminService := services.NewAdminService(db)

	matchService.StartReaper(reaperTTL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if utils.R2Configured() {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		archiver := workers.NewMatchArchiver(db)
		go workers.PollFinishedMatches(ctx, archiver, 1*time.Minute)
		log.Println("✅ Finished-match archiver running (every 1m)")
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set — match archival disabled")
	}

	handlers.SetupAuthRoutes(app, userService)
	handlers.SetupMatchRoutes(app, &handlers.MatchHandler{
		Matches: matchService,
		Play:    playService,
		Views:   viewService,
		Feed:    feedService,
	}, userService)
	handlers.SetupAdminRoutes(app, adminService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}

// reaperTTL reads the idle cutoff for registering matches; 0 disables
// the reaper.
func reaperTTL() time.Duration {
	raw := os.Getenv("REAPER_TTL_MINUTES")
	if raw == "" {
		return 24 * time.Hour
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
