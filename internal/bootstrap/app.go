// Package bootstrap wires configuration, infrastructure, services,
// handlers and routes into a runnable application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "homestream/internal/handler/http"
	wsHandler "homestream/internal/handler/websocket"
	"homestream/internal/hub"
	gormpersistence "homestream/internal/infra/persistence/gorm"
	"homestream/internal/infra/setup"
	"homestream/internal/infra/state/memory"
	redisstate "homestream/internal/infra/state/redis"
	"homestream/internal/middleware"
	"homestream/internal/service"
	"homestream/internal/storage"
)

// Config holds everything read from the environment at startup.
type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string

	JWTSecret      string
	JWTExpiryHours int

	AdminUsername string
	AdminPassword string

	// VaultKey is the hex-encoded 32-byte secretbox key for the password
	// vault.
	VaultKey string

	UploadDir      string
	RoomCodeLength int
	SelectionTTL   time.Duration

	ServerPort      string
	LogLevel        string
	AppEnv          string
	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// LoadConfig reads configuration from the environment, with a .env file as
// optional convenience.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:     os.Getenv("REDIS_KEY_PREFIX"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		VaultKey:      os.Getenv("VAULT_KEY"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		AppEnv:        os.Getenv("APP_ENV"),
		CORSOrigin:    os.Getenv("CORS_ALLOWED_ORIGIN"),

		JWTExpiryHours:  24,
		RateLimitMax:    100,
		RateLimitWindow: 1 * time.Second,
		SelectionTTL:    30 * time.Minute,
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg.RoomCodeLength, _ = strconv.Atoi(os.Getenv("ROOM_CODE_LENGTH"))

	if cfg.DBHost == "" {
		cfg.DBHost = "127.0.0.1"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "3306"
	}
	if cfg.DBName == "" {
		cfg.DBName = "homestream"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "hs:"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if cfg.VaultKey == "" {
		return nil, fmt.Errorf("environment variable VAULT_KEY must be set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// App bundles the long-lived application components.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Hub         *hub.Hub
	HTTPServer  *http.Server
}

// NewApp initializes every component and wires them together.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.StandardLogger()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded")

	// Infrastructure.
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	log.Info("Redis client initialized")

	fileStore, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}

	// Repositories and state.
	userRepo := gormpersistence.NewGormUserRepository(db)
	videoRepo := gormpersistence.NewGormVideoRepository(db)
	animeRepo := gormpersistence.NewGormAnimeRepository(db)
	vaultRepo := gormpersistence.NewGormVaultRepository(db)
	partyRegistry := memory.NewPartyRegistry()
	selectionStore := redisstate.NewRedisSelectionStore(redisClient, cfg.KeyPrefix, cfg.SelectionTTL)

	// Services.
	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AdminUsername, cfg.JWTExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("create AuthService: %w", err)
	}
	catalogService := service.NewCatalogService(videoRepo, animeRepo)
	vaultService, err := service.NewVaultService(vaultRepo, cfg.VaultKey)
	if err != nil {
		return nil, fmt.Errorf("create VaultService: %w", err)
	}
	codeGen := service.NewRoomCodeGenerator(cfg.RoomCodeLength)
	partyService := service.NewPartyService(partyRegistry, selectionStore, catalogService, codeGen)

	if err := authService.EnsureAdmin(context.Background(), cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("ensure admin account: %w", err)
	}

	// Hub.
	hubInstance := hub.NewHub(partyRegistry, selectionStore)

	// Handlers.
	authHandler := httpHandler.NewAuthHandler(authService)
	catalogHandler := httpHandler.NewCatalogHandler(catalogService)
	vaultHandler := httpHandler.NewVaultHandler(vaultService)
	filesHandler := httpHandler.NewFilesHandler(fileStore)
	partyHandler := httpHandler.NewPartyHandler(partyService)
	socketHandler := wsHandler.NewWebSocketHandler(hubInstance)

	// Router.
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware(cfg.CORSOrigin))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow))

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		authed := api.Group("", middleware.Auth(cfg.JWTSecret))
		{
			authed.GET("/videos", catalogHandler.ListVideos)
			authed.GET("/anime", catalogHandler.ListSeries)
			authed.GET("/anime/:id", catalogHandler.SeriesDetail)

			partyRoutes := authed.Group("/parties")
			{
				partyRoutes.GET("", partyHandler.ListParties)
				partyRoutes.POST("", partyHandler.CreateParty)
				partyRoutes.POST("/join", partyHandler.JoinParty)
				partyRoutes.GET("/:code", partyHandler.RoomInfo)
			}
		}

		master := api.Group("", middleware.Auth(cfg.JWTSecret), middleware.RequireMaster())
		{
			master.POST("/videos", catalogHandler.AddVideo)
			master.DELETE("/videos/:id", catalogHandler.DeleteVideo)
			master.POST("/anime", catalogHandler.AddSeries)
			master.DELETE("/anime/:id", catalogHandler.DeleteSeries)
			master.POST("/anime/:id/episodes", catalogHandler.AddEpisode)
			master.DELETE("/episodes/:id", catalogHandler.DeleteEpisode)

			master.GET("/vault", vaultHandler.List)
			master.POST("/vault", vaultHandler.Add)
			master.DELETE("/vault/:id", vaultHandler.Delete)

			master.GET("/files", filesHandler.List)
			master.POST("/files", filesHandler.Upload)
			master.GET("/files/:name", filesHandler.Download)
			master.DELETE("/files/:name", filesHandler.Delete)
		}
	}

	// Guests may spectate parties, so auth is optional here.
	router.GET("/ws/party", middleware.OptionalAuth(cfg.JWTSecret), socketHandler.HandleConnection)
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		Hub:         hubInstance,
		HTTPServer:  httpServer,
	}, nil
}

// Start launches the hub loop and the HTTP server.
func (a *App) Start() {
	go a.Hub.Run()

	go func() {
		a.Log.Infof("HTTP server listening on %s", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
}

// Shutdown stops the components in reverse dependency order.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	}

	a.Hub.Stop()

	if err := a.RedisClient.Close(); err != nil {
		a.Log.Errorf("Error closing Redis connection: %v", err)
	}
	a.Log.Info("Application shutdown complete")
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware records one structured line per request.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		statusCode := c.Writer.Status()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  time.Since(startTime).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry.Error(errorMessage)
		} else if statusCode >= 500 {
			entry.Error("Server error")
		} else if statusCode >= 400 {
			entry.Warn("Client error")
		} else {
			entry.Info("Request handled")
		}
	}
}
