package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"google.golang.org/genai"

	"budgetwise-go-be/config"
	"budgetwise-go-be/database"
	"budgetwise-go-be/handlers"
	"budgetwise-go-be/middleware"
	"budgetwise-go-be/rag"
	"budgetwise-go-be/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
	if err != nil {
		log.Fatal("Failed to init AI client. \n", err)
	}

	index, err := rag.OpenIndex(cfg.IndexDir, cfg.EmbeddingModel)
	if err != nil {
		log.Fatal("Failed to open vector index. \n", err)
	}

	users := repositories.NewUserStore(db)
	transactions := repositories.NewTransactionStore(db)
	ragSvc := rag.NewService(
		index,
		rag.NewGeminiEmbedder(client, cfg.EmbeddingModel),
		rag.NewGeminiGenerator(client, cfg.GeminiModel),
		transactions,
		cfg.TopK,
	)

	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret, cfg.TokenExpiryHours)
	expenseHandler := handlers.NewExpenseHandler(transactions, ragSvc)
	ragHandler := handlers.NewRagHandler(ragSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Post("/signup", authHandler.Signup)
	app.Post("/login", authHandler.Login)

	protected := middleware.JwtAuth(cfg.JWTSecret)
	app.Get("/user", protected, authHandler.Me)
	app.Post("/add_expense", protected, expenseHandler.AddExpense)
	app.Get("/expenses", protected, expenseHandler.ListExpenses)
	app.Get("/summary", protected, expenseHandler.Summary)

	chatbot := app.Group("/chatbot/rag", protected)
	chatbot.Post("/build", ragHandler.Build)
	chatbot.Post("/reindex", ragHandler.Build)
	chatbot.Get("/stats", ragHandler.Stats)
	chatbot.Post("/query", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
	}), ragHandler.Query)
	chatbot.Post("/clear-memory", ragHandler.ClearMemory)

	log.Fatal(app.Listen(":" + cfg.Port))
}
