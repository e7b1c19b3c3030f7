package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"examprep-service/internal/config"
	"examprep-service/internal/db"
	"examprep-service/internal/event"
	"examprep-service/internal/handlers"
	"examprep-service/internal/logger"
	"examprep-service/internal/repository"
	"examprep-service/internal/service"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid adaptive policy")
	}

	if err := db.InitMongo(cfg.MongoURI); err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	database := db.Client.Database(cfg.MongoDatabase)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	} else {
		log.Info().Msg("redis not configured, leaderboard cache disabled")
	}

	var publisher *event.EventPublisher
	if cfg.RabbitURI != "" && cfg.RabbitExchange != "" {
		publisher, err = event.NewEventPublisher(cfg.RabbitURI, cfg.RabbitExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq connection failed")
		}
		defer publisher.Close()
	} else {
		log.Info().Msg("rabbitmq not configured, events will not be published")
	}

	// Repositories
	questionRepo := repository.NewQuestionRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	resultRepo := repository.NewResultRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	subjectRepo := repository.NewSubjectRepository(database)
	activityRepo := repository.NewActivityRepository(database)

	// Services
	leaderboardService := service.NewLeaderboardService(rdb, sessionRepo)
	sessionService := service.NewSessionService(sessionRepo, questionRepo, subjectRepo, resultRepo, policy)
	sessionService.Activity = activityRepo
	sessionService.Scores = leaderboardService
	if publisher != nil {
		sessionService.Events = publisher
	}
	sessionService.BatchBudgetSeconds = cfg.BatchBudgetSeconds
	sessionService.BatchSize = cfg.BatchSize

	questionService := service.NewQuestionService(questionRepo)
	taxonomyService := service.NewTaxonomyService(categoryRepo, subjectRepo)
	resultService := service.NewResultService(resultRepo, activityRepo)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(sessionService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	resultHandler := handlers.NewResultHandler(resultService)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-User-ID", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes
	public := r.Group("/public")
	{
		public.GET("/categories", taxonomyHandler.ListCategories)
		public.GET("/subjects", taxonomyHandler.ListSubjects)
		public.GET("/subjects/category/:categoryId", taxonomyHandler.ListSubjectsByCategory)
		public.GET("/leaderboard", leaderboardHandler.Standings)
		public.GET("/leaderboard/top", leaderboardHandler.Top)
	}

	// Protected routes require an authenticated caller.
	protected := r.Group("/protected", requireUser())

	session := protected.Group("/quiz/session")
	{
		session.POST("/", sessionHandler.StartSession)
		session.GET("/active", sessionHandler.ActiveSessions)
		session.GET("/:id", sessionHandler.GetSession)
		session.GET("/:id/next", sessionHandler.NextQuestion)
		session.POST("/:id/answer", sessionHandler.SubmitAnswer)
		session.GET("/:id/questions", sessionHandler.SampleQuestions)
		session.POST("/:id/submit", sessionHandler.SubmitBatch)
		session.POST("/:id/complete", sessionHandler.Complete)
	}

	question := protected.Group("/quiz/question")
	{
		question.GET("/", questionHandler.ListQuestions)
		question.GET("/:id", questionHandler.GetQuestion)
		question.POST("/", requireAdmin(), questionHandler.CreateQuestion)
		question.PUT("/:id", requireAdmin(), questionHandler.UpdateQuestion)
		question.DELETE("/:id", requireAdmin(), questionHandler.DeleteQuestion)
		question.POST("/bulk", requireAdmin(), questionHandler.BulkUpload)
	}

	protected.POST("/categories", requireAdmin(), taxonomyHandler.CreateCategory)
	protected.POST("/subjects", requireAdmin(), taxonomyHandler.CreateSubject)

	result := protected.Group("/quiz/result")
	{
		result.GET("/session/:id", resultHandler.GetResultBySession)
		result.GET("/user/:id", resultHandler.GetResultsByUser)
		result.GET("/dashboard", resultHandler.Dashboard)
		result.GET("/recent", resultHandler.RecentActivity)
	}

	runServer(r, cfg.Port)
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-Role") != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func runServer(handler http.Handler, port string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + port, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}
