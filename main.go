package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/config"
	"github.com/devlinkhq/devlink-backend/src/controllers"
	"github.com/devlinkhq/devlink-backend/src/events"
	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/middleware"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/routes"
	"github.com/devlinkhq/devlink-backend/src/services"
	"github.com/devlinkhq/devlink-backend/src/stores"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := lib.NewLogger(cfg.Debug)
	defer log.Sync()

	ctx := context.Background()
	db, err := lib.ConnectDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	if err := lib.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("could not create indexes", zap.Error(err))
	}

	userStore := stores.NewUserStore(db)
	connectionStore := stores.NewConnectionStore(db)
	notificationStore := stores.NewNotificationStore(db)
	profileStore := stores.NewProfileStore(db)
	skillStore := stores.NewSkillStore(db)
	messageStore := stores.NewMessageStore(db)

	enricher := services.NewEnricher(userStore, profileStore)

	dispatcher := events.NewDispatcher(func(ctx context.Context, n models.Notification) error {
		return notificationStore.Insert(ctx, &n)
	}, cfg.NotifyBuffer, log)
	defer dispatcher.Close()

	notifications := services.NewNotifications(notificationStore, dispatcher, enricher, log)
	registry := services.NewRegistry(connectionStore, userStore, enricher, notifications, log)
	suggestions := services.NewSuggestionEngine(connectionStore, userStore, enricher)

	userController := controllers.NewUserController(userStore, log)
	connectionController := controllers.NewConnectionController(registry, suggestions, log)
	notificationController := controllers.NewNotificationController(notifications, log)
	profileController := controllers.NewProfileController(profileStore, userStore, log)
	postController := controllers.NewPostController(db, connectionStore, enricher, notifications, log)
	skillController := controllers.NewSkillController(skillStore, enricher, log)
	projectController := controllers.NewProjectController(db, enricher, log)
	messageController := controllers.NewMessageController(messageStore, enricher, log)
	searchController := controllers.NewSearchController(userStore, registry, enricher, postController, log)

	auth := middleware.NewAuth(userStore, cfg.JWTSecret)

	app := fiber.New()
	if cfg.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	} else {
		app.Use(cors.New())
	}

	routes.UserRoutes(app, userController, auth.ProtectRoute)
	routes.ConnectionRoutes(app, connectionController, auth.ProtectRoute)
	routes.NotificationRoutes(app, notificationController, auth.ProtectRoute)
	routes.ProfileRoutes(app, profileController, auth.ProtectRoute)
	routes.PostRoutes(app, postController, auth.ProtectRoute)
	routes.SkillRoutes(app, skillController, auth.ProtectRoute)
	routes.ProjectRoutes(app, projectController, auth.ProtectRoute)
	routes.MessageRoutes(app, messageController, auth.ProtectRoute)
	routes.SearchRoutes(app, searchController, auth.ProtectRoute)

	log.Info("server listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
