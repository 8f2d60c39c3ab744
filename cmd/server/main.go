package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/simplymedi/simplymedi-be/internal/api"
	"github.com/simplymedi/simplymedi-be/internal/api/middleware"
	"github.com/simplymedi/simplymedi-be/internal/appointments"
	"github.com/simplymedi/simplymedi-be/internal/chat"
	"github.com/simplymedi/simplymedi-be/internal/classifier"
	"github.com/simplymedi/simplymedi-be/internal/db"
	"github.com/simplymedi/simplymedi-be/internal/language"
	"github.com/simplymedi/simplymedi-be/internal/memory"
	"github.com/simplymedi/simplymedi-be/internal/reports"
	"github.com/simplymedi/simplymedi-be/internal/translation"
	"github.com/simplymedi/simplymedi-be/internal/ws"
	"github.com/simplymedi/simplymedi-be/pkg/rag"
)

func main() {
	logger := newLogger()

	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg(".env file not found")
	}

	port := getEnv("PORT", "8080")
	databaseURL := getEnv("DATABASE_URL", "")
	jwtSecret := getEnv("JWT_SECRET", "")
	ragWebhookURL := getEnv("RAG_WEBHOOK_URL", "")
	ragAPIKey := getEnv("RAG_API_KEY", "")
	uploadDir := getEnv("UPLOAD_DIR", "uploads")
	migrationsPath := getEnv("MIGRATIONS_PATH", "migrations")

	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}
	if jwtSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}

	if err := db.RunMigrations(databaseURL, migrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	database, err := db.NewFromURL(databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()
	logger.Info().Msg("database connected")

	// The RAG provider is optional; without it chat and translation run
	// entirely on their local fallbacks.
	var provider rag.Client = rag.NewDisabled()
	if ragWebhookURL != "" {
		provider = rag.NewHTTPClient(rag.Config{
			WebhookURL: ragWebhookURL,
			APIKey:     ragAPIKey,
		})
		logger.Info().Msg("RAG provider configured")
	} else {
		logger.Warn().Msg("RAG_WEBHOOK_URL not set, running with fallback responses only")
	}

	langMgr := language.NewManager()
	loadLanguageCatalog(database, langMgr, logger)

	translator := translation.NewService(provider, langMgr, logger)

	reportSvc, err := reports.NewService(database, provider, translator, reports.Config{
		UploadDir: uploadDir,
		FontPaths: splitList(getEnv("PDF_FONT_PATHS", "")),
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize report service")
	}

	apptSvc := appointments.NewService(database)

	chatEngine := chat.NewEngine(
		classifier.New(),
		memory.NewManager(10),
		db.NewChatHistoryAdapter(database),
		provider,
		appointments.NewSuggester(),
		langMgr,
		database,
		logger,
	)

	authHandler := api.NewAuthHandler(database, langMgr, jwtSecret)
	oauthHandler := api.NewOAuthHandler(database, jwtSecret)
	usersHandler := api.NewUsersHandler(database, langMgr)
	languagesHandler := api.NewLanguagesHandler(langMgr, translator)
	reportsHandler := api.NewReportsHandler(reportSvc, langMgr)
	apptHandler := api.NewAppointmentsHandler(database, apptSvc)
	convHandler := api.NewConversationsHandler(database)
	adminHandler := api.NewAdminHandler(database, langMgr)
	chatHandler := ws.NewChatHandler(chatEngine, database, jwtSecret, logger)

	if getEnv("ENV", "development") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(splitList(getEnv("CORS_ALLOWED_ORIGINS", ""))))
	router.Use(middleware.PerIP(100.0/60.0, 200)) // 100/min per IP

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	// Auth routes (public, tighter rate limit against credential stuffing)
	auth := router.Group("/api/auth")
	auth.Use(middleware.PerIP(10.0/60.0, 10))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.JWTAuth(jwtSecret), authHandler.Me)

		auth.GET("/google", oauthHandler.GoogleLogin)
		auth.GET("/google/callback", oauthHandler.GoogleCallback)
		auth.POST("/google/token", oauthHandler.GoogleTokenAuth)
	}

	// Language routes (public so clients can localize before signing in)
	languages := router.Group("/api/languages")
	{
		languages.GET("/supported", languagesHandler.Supported)
		languages.GET("/formatting-rules/:code", languagesHandler.FormattingRules)
		languages.POST("/translate-ui", languagesHandler.TranslateUI)
		languages.POST("/translate-batch", languagesHandler.TranslateBatch)
	}

	// Everything below needs a session.
	authed := router.Group("/api")
	authed.Use(middleware.JWTAuth(jwtSecret))
	authed.Use(middleware.PerUser(500.0/3600.0, 100)) // 500/hour per user
	{
		authed.POST("/languages/translate", languagesHandler.Translate)
		authed.POST("/languages/detect", languagesHandler.Detect)
		authed.POST("/languages/simplify", languagesHandler.Simplify)

		authed.GET("/users/language-preferences", usersHandler.GetLanguagePreferences)
		authed.PATCH("/users/language-preferences", usersHandler.UpdateLanguagePreferences)

		authed.POST("/reports", reportsHandler.Upload)
		authed.GET("/reports", reportsHandler.List)
		authed.GET("/reports/:id", reportsHandler.Get)
		authed.GET("/reports/:id/download", reportsHandler.Download)
		authed.DELETE("/reports/:id", reportsHandler.Delete)
		authed.POST("/reports/:id/simplify", reportsHandler.Simplify)
		authed.GET("/reports/:id/export", reportsHandler.Export)

		authed.GET("/doctors", apptHandler.ListDoctors)
		authed.POST("/appointments", apptHandler.Book)
		authed.GET("/appointments", apptHandler.List)
		authed.PATCH("/appointments/:id", apptHandler.Update)

		authed.GET("/chat/conversations", convHandler.List)
		authed.POST("/chat/conversations", convHandler.Create)
		authed.GET("/chat/conversations/:id", convHandler.Get)
		authed.PATCH("/chat/conversations/:id", convHandler.Update)
		authed.DELETE("/chat/conversations/:id", convHandler.Delete)
		authed.GET("/chat/conversations/:id/messages", convHandler.Messages)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/languages", adminHandler.ListLanguages)
		admin.POST("/languages", adminHandler.CreateLanguage)
		admin.PATCH("/languages/:code", adminHandler.UpdateLanguage)
		admin.DELETE("/languages/:code", adminHandler.DeleteLanguage)
		admin.GET("/doctors", adminHandler.ListDoctors)
		admin.POST("/doctors", adminHandler.CreateDoctor)
		admin.PATCH("/doctors/:id", adminHandler.UpdateDoctor)
		admin.GET("/stats", adminHandler.Stats)
	}

	// WebSocket chat (token via query param or header, checked in the handler)
	router.GET("/ws/chat", chatHandler.HandleChat)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}

// loadLanguageCatalog replaces the built-in catalog with the database's.
// On failure the built-in defaults stay, so the server still validates
// and translates the standard languages.
func loadLanguageCatalog(database *db.DB, langMgr *language.Manager, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := database.GetAllLanguages(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load languages, using built-in catalog")
		return
	}

	infos := make([]language.Info, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, language.Info{
			Code:       row.Code,
			Name:       row.Name,
			NativeName: row.NativeName,
			IsRTL:      row.IsRTL,
			IsEnabled:  row.IsEnabled,
		})
	}
	langMgr.Replace(infos)
	logger.Info().Int("languages", len(infos)).Msg("language catalog loaded")
}

func newLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if getEnv("ENV", "development") != "production" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
