package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"campushub/internal/audit"
	"campushub/internal/config"
	"campushub/internal/handler"
	"campushub/internal/mail"
	"campushub/internal/middleware"
	"campushub/internal/repository"
	"campushub/internal/service"
	"campushub/internal/version"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	mongo  *mongo.Client
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	mongoClient, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	if err := ensureIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	institutionRepo := repository.NewInstitutionRepository(db)
	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	mailer := mail.NewSMTPMailer(cfg.SMTP)
	auditor := audit.NewLogger(auditRepo)
	tokenSvc := service.NewTokenService(cfg.JWT)
	authSvc := service.NewAuthService(userRepo, institutionRepo, tokenSvc, mailer, auditor, cfg.FrontendURL)
	resetSvc := service.NewResetService(userRepo, institutionRepo, mailer, auditor, cfg.FrontendURL)
	userSvc := service.NewUserService(userRepo, membershipRepo, auditor)

	authHandler := handler.NewAuthHandler(authSvc, resetSvc, cfg)
	userHandler := handler.NewUserHandler(userSvc)

	router := setupRouter(cfg, authHandler, userHandler, tokenSvc, institutionRepo, userRepo)

	return &Server{
		cfg:    cfg,
		router: router,
		mongo:  mongoClient,
	}, nil
}

func Connect(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// ensureIndexes creates the unique indexes the platform's correctness
// depends on: email uniqueness is global, institution codes are unique, and
// a user holds at most one membership per club. Pre-checks in services are
// an optimization; these constraints settle races.
func ensureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	if _, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	if _, err := db.Collection("institutions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	if _, err := db.Collection("club_memberships").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "clubId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	return nil
}

// Close disconnects MongoDB client
func (s *Server) Close() error {
	if s.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.mongo.Disconnect(ctx)
	}
	return nil
}

// Run starts the server
func (s *Server) Run() error {
	zap.L().Info("CampusHub server running",
		zap.String("address", s.cfg.Server.Address()),
		zap.String("version", version.Version))
	return s.router.Run(s.cfg.Server.Address())
}

func setupRouter(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tokens *service.TokenService,
	institutions repository.IInstitutionRepository,
	users repository.IUserRepository,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.SetTrustedProxies(nil)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})

	api := r.Group("/api")

	// Platform-level routes (no tenant)
	api.POST("/institutions/register", authHandler.RegisterInstitution)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.GlobalLogin)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/request-reset", authHandler.RequestReset)
		auth.GET("/validate-reset", authHandler.ValidateReset)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Tenant-scoped routes: the institution resolver rejects unknown codes
	// before anything else runs
	tenant := api.Group("/:code")
	tenant.Use(middleware.ResolveInstitution(institutions))
	{
		tenant.POST("/auth/register", authHandler.TenantRegister)
		tenant.POST("/auth/login", authHandler.TenantLogin)

		protected := tenant.Group("")
		protected.Use(middleware.RequireAuth(tokens, users))
		{
			protected.POST("/auth/change-password", authHandler.ChangePassword)
			protected.GET("/users/memberships", userHandler.Memberships)
			protected.GET("/users/event-registrations", userHandler.EventRegistrations)
			protected.DELETE("/users/me", userHandler.DeleteMe)
		}
	}

	return r
}
