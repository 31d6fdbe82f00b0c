package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/event-api/docs"
	v1 "github.com/vietanh2810/event-api/internal/api/handler/v1"
	"github.com/vietanh2810/event-api/internal/api/middleware"
	"github.com/vietanh2810/event-api/internal/config"
	"github.com/vietanh2810/event-api/internal/metrics"
	"github.com/vietanh2810/event-api/internal/notify"
	"github.com/vietanh2810/event-api/internal/pkg/contentfilter"
	"github.com/vietanh2810/event-api/internal/repository"
	"github.com/vietanh2810/event-api/internal/repository/dao"
	"github.com/vietanh2810/event-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	auth     *v1.AuthHandler
	user     *v1.UserHandler
	event    *v1.EventHandler
	question *v1.QuestionHandler
}

// NewServer wires every layer on top of db. The content filter is built here, before the
// first request can reach it.
func NewServer(conf *config.AppConfig, db *gorm.DB, publisher notify.Publisher) (*Server, error) {
	filter, err := contentfilter.New(conf.Filter)
	if err != nil {
		return nil, fmt.Errorf("contentfilter.New -> %w", err)
	}

	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	questionRepo := repository.NewQuestionRepository(dao.NewQuestionDAO(db))
	categoryRepo := repository.NewCategoryRepository(dao.NewCategoryDAO(db))

	authSvc := service.NewAuthService(userRepo, conf.API)

	h := handlers{
		auth:     v1.NewAuthHandler(authSvc),
		user:     s.initUserHandler(userRepo),
		event:    s.initEventHandler(eventRepo, userRepo, questionRepo, categoryRepo, filter, publisher),
		question: s.initQuestionHandler(questionRepo, eventRepo, userRepo, publisher),
	}
	s.MountHandlers(middleware.NewAuthenticator(authSvc), h)

	return s, nil
}

func (s *Server) initUserHandler(userRepo *repository.UserRepository) *v1.UserHandler {
	svc := service.NewUserService(userRepo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initEventHandler(
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	categoryRepo *repository.CategoryRepository,
	filter service.ContentFilter,
	publisher notify.Publisher,
) *v1.EventHandler {
	svc := service.NewEventService(eventRepo, userRepo, questionRepo, categoryRepo, filter, publisher)
	handler := v1.NewEventHandler(svc)

	return handler
}

func (s *Server) initQuestionHandler(
	questionRepo *repository.QuestionRepository,
	eventRepo *repository.EventRepository,
	userRepo *repository.UserRepository,
	publisher notify.Publisher,
) *v1.QuestionHandler {
	svc := service.NewQuestionService(questionRepo, eventRepo, userRepo, publisher)
	handler := v1.NewQuestionHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(metrics.GinMiddleware())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(auth *middleware.Authenticator, h handlers) {
	r := s.Router
	required := auth.VerifyToken()
	optional := auth.OptionalToken()

	r.GET("/", v1.HandleHealthcheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/users", h.auth.HandleSignup)
	r.POST("/login", h.auth.HandleLogin)
	r.POST("/logout", required, h.auth.HandleLogout)
	r.GET("/users/me", required, h.user.HandleGetMe)

	r.GET("/categories", h.event.HandleListCategories)
	r.GET("/search", h.event.HandleSearchEvents)

	events := r.Group("/events")
	{
		events.GET("", h.event.HandleListEvents)
		events.GET("/search", h.event.HandleSearchEvents)
		events.GET("/:id", optional, h.event.HandleGetEvent)
		events.GET("/:id/questions", h.question.HandleListEventQuestions)

		events.POST("", required, h.event.HandleCreateEvents)
		events.PATCH("/:id", required, h.event.HandleUpdateEvent)
		events.DELETE("/:id", required, h.event.HandleArchiveEvent)
		events.POST("/:id/register", required, h.event.HandleRegister)
		events.POST("/:id/question", required, h.question.HandleAskQuestion)
	}
	r.GET("/event/:id", optional, h.event.HandleGetEvent)

	questions := r.Group("/questions")
	{
		questions.GET("/:id", h.question.HandleGetQuestion)

		questions.POST("", required, h.question.HandleCreateQuestion)
		questions.DELETE("/:id", required, h.question.HandleDeleteQuestion)
		questions.POST("/:id/vote", required, h.question.HandleVoteQuestion)
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Title = "Event API"
	docs.SwaggerInfo.Description = "Events, registrations and questions."
	docs.SwaggerInfo.Version = "1.0"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadTimeout:       s.Config.API.ReadTimeout,
		WriteTimeout:      s.Config.API.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server.ListenAndServe -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown -> %w", err)
	}

	zap.L().Info("server stopped")

	return nil
}
