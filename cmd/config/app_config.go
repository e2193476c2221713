package config

import (
	"os"
	"sync"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/routes"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/cache"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/subscription"
	"foodgram/pkg/user"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Dependencies are the outside services the app talks to. Nil members are
// built from configuration.
type Dependencies struct {
	ImageStore storage.ImageStore
	Mailer     mailing.Mailer
	Cache      *cache.Cache
	JWTSecret  string
	AppURL     string
	// RateLimit is the per-client request budget per second.
	RateLimit int
}

const defaultRateLimit = 20

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// metrics registers the collectors once per process; the default registry
// rejects duplicates.
func metrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New("foodgram")
	})
	return prom
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	return NewAppWith(db, Dependencies{})
}

func NewAppWith(db *gorm.DB, deps Dependencies) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	app.Use(recover.New())

	// setting up logging, limiter and metrics
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	if deps.RateLimit <= 0 {
		deps.RateLimit = defaultRateLimit
	}
	app.Use(limiter.New(limiter.Config{
		Max:        deps.RateLimit,
		Expiration: 1 * time.Second,
	}))

	prometheus := metrics()
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// utils
	if deps.ImageStore == nil {
		deps.ImageStore = storage.NewAwsS3()
	}
	if deps.Mailer == nil {
		deps.Mailer = mailing.NewMailer()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewRedisCache(utils.GetConfig("REDIS_URL"))
	}
	if deps.JWTSecret == "" {
		deps.JWTSecret = utils.GetConfig("JWT_SECRET")
	}
	if deps.AppURL == "" {
		deps.AppURL = utils.GetConfig("APP_URL")
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	followRepository := user.NewFollowRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService(deps.JWTSecret)
	userService := user.NewUserService(userRepository, followRepository, jwtService, deps.ImageStore)
	ingredientService := ingredient.NewIngredientService(ingredientRepository, deps.Cache)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		userRepository,
		followRepository,
		ingredientService,
		deps.ImageStore,
		deps.Mailer,
		deps.AppURL,
	)
	subscriptionService := subscription.NewSubscriptionService(userRepository, followRepository, recipeService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, subscriptionService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
