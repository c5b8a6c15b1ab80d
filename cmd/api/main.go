package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"casino-miniapp-backend/internal/config"
	"casino-miniapp-backend/internal/engine"
	"casino-miniapp-backend/internal/games"
	"casino-miniapp-backend/internal/handlers"
	"casino-miniapp-backend/internal/middleware"
	"casino-miniapp-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := services.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()

	jwtService := services.NewJWTService(cfg)
	ledgerClient := services.NewHTTPLedgerClient(cfg)
	bonusService := services.NewBonusService(store)

	catalog := games.NewCatalog()
	wsHandler := handlers.NewWebSocketHandler(store)

	roundEngine := engine.New(catalog, store, ledgerClient,
		engine.WithResolveDelay(cfg.ResolveDelay),
		engine.WithCrashPace(cfg.CrashTick, 0.05),
		engine.WithBroadcaster(wsHandler),
	)

	gameHandler := handlers.NewGameHandler(roundEngine, catalog, store)
	bonusHandler := handlers.NewBonusHandler(bonusService, roundEngine)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/ws", wsHandler.HandleWebSocket)

		gameRoutes := protected.Group("/games")
		{
			gameRoutes.GET("/catalog", gameHandler.GetCatalog)
			gameRoutes.POST("/bet", gameHandler.PlaceBet)
			gameRoutes.GET("/balance", gameHandler.GetBalance)
			gameRoutes.GET("/history", gameHandler.GetGameHistory)

			crash := gameRoutes.Group("/crash")
			{
				crash.POST("/cashout", gameHandler.CrashCashout)
			}
		}

		protected.POST("/bonus/claim", bonusHandler.Claim)
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
