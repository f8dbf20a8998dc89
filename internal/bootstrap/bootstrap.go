package bootstrap

import (
	"context"
	"log"

	"github.com/fathima-sithara/contacts-service/internal/config"
	"github.com/fathima-sithara/contacts-service/internal/database"
	"github.com/fathima-sithara/contacts-service/internal/handlers"
	"github.com/fathima-sithara/contacts-service/internal/mailer"
	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/services"
	"github.com/fathima-sithara/contacts-service/internal/storage"
	"github.com/fathima-sithara/contacts-service/internal/token"
	"github.com/fathima-sithara/contacts-service/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type AppContext struct {
	Config         *config.Config
	Logger         *zap.Logger
	Sugar          *zap.SugaredLogger
	Mongo          *mongo.Client
	Auth           *middleware.Auth
	AuthHandler    *handlers.AuthHandler
	ContactHandler *handlers.ContactHandler
	UserHandler    *handlers.UserHandler
}

type CleanupFn func(context.Context)

func Init(configPath string) (*AppContext, CleanupFn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := utils.NewLogger(cfg.App.Env)
	sugar := logger.Sugar()

	app := &AppContext{Config: cfg, Logger: logger, Sugar: sugar}
	sugar.Infof("Starting contacts-service in %s environment", cfg.App.Env)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, sugar)
	if err != nil {
		return nil, nil, err
	}
	app.Mongo = mongoClient

	photoStore, err := storage.NewS3Store(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint)
	if err != nil {
		return nil, nil, err
	}

	mail := mailer.NewClient(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName)
	if !mail.IsConfigured() {
		sugar.Warn("Brevo client not fully configured. Password reset emails will be skipped.")
	}

	tokens := token.NewManager(cfg.App.JWT.Secret, cfg.SessionTTL(), cfg.ResetTTL())

	userRepo := repository.NewMongoUserRepo(db, cfg.Collections.Users)
	contactRepo := repository.NewMongoContactRepo(db, cfg.Collections.Contacts)

	authSvc := services.NewAuthService(userRepo, tokens, mail, cfg.App.URL, cfg.Security.PasswordHashCost, logger)
	contactSvc := services.NewContactService(contactRepo, userRepo, photoStore, logger)
	userSvc := services.NewUserService(userRepo)

	app.Auth = middleware.NewAuth(tokens, userRepo)
	app.AuthHandler = handlers.NewAuthHandler(authSvc)
	app.ContactHandler = handlers.NewContactHandler(contactSvc)
	app.UserHandler = handlers.NewUserHandler(userSvc)

	return app, func(ctx context.Context) {
		if cerr := logger.Sync(); cerr != nil {
			log.Printf("Logger sync error: %v", cerr)
		}
		if cerr := mongoClient.Disconnect(ctx); cerr != nil {
			sugar.Errorf("MongoDB disconnect error: %v", cerr)
		}
	}, nil
}
