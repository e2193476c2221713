package routes

import (
	"foodgram/internal/api/handlers"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	IngredientHandler handlers.IngredientHandler
	RecipeHandler     handlers.RecipeHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.User()
	c.Ingredient()
	c.Recipe()
	c.ShortLink()
	c.GuestRoute()
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	{
		auth.Post("/login", c.UserHandler.Login)
		auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
	}
}

func (c *Config) User() {
	authRequired := c.Middleware.AuthMiddleware(c.JWTService)
	optionalAuth := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	user := c.App.Group("/api/users")
	{
		user.Post("/", c.UserHandler.Register)
		user.Get("/", optionalAuth, c.UserHandler.GetUsers)
		user.Get("/me", authRequired, c.UserHandler.Me)
		user.Put("/me/avatar", authRequired, c.UserHandler.SetAvatar)
		user.Delete("/me/avatar", authRequired, c.UserHandler.DeleteAvatar)
		user.Post("/set_password", authRequired, c.UserHandler.SetPassword)
		user.Get("/subscriptions", authRequired, c.UserHandler.GetSubscriptions)
		user.Post("/:id/subscribe", authRequired, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", authRequired, c.UserHandler.Unsubscribe)
		user.Get("/:id", optionalAuth, c.UserHandler.GetUser)
	}
}

func (c *Config) Ingredient() {
	ingredient := c.App.Group("/api/ingredients")
	{
		ingredient.Get("/", c.IngredientHandler.GetIngredients)
		ingredient.Get("/:id", c.IngredientHandler.GetIngredient)
	}
}

func (c *Config) Recipe() {
	authRequired := c.Middleware.AuthMiddleware(c.JWTService)
	optionalAuth := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipe := c.App.Group("/api/recipes")
	{
		recipe.Get("/", optionalAuth, c.RecipeHandler.GetRecipes)
		recipe.Post("/", authRequired, c.RecipeHandler.CreateRecipe)
		recipe.Get("/download_shopping_cart", authRequired, c.RecipeHandler.DownloadShoppingCart)
		recipe.Post("/send_shopping_cart", authRequired, c.RecipeHandler.SendShoppingCart)
		recipe.Get("/:id", optionalAuth, c.RecipeHandler.GetRecipe)
		recipe.Patch("/:id", authRequired, c.RecipeHandler.UpdateRecipe)
		recipe.Delete("/:id", authRequired, c.RecipeHandler.DeleteRecipe)
		recipe.Get("/:id/get-link", c.RecipeHandler.GetLink)
		recipe.Post("/:id/favorite", authRequired, c.RecipeHandler.AddFavorite)
		recipe.Delete("/:id/favorite", authRequired, c.RecipeHandler.RemoveFavorite)
		recipe.Post("/:id/shopping_cart", authRequired, c.RecipeHandler.AddToShoppingCart)
		recipe.Delete("/:id/shopping_cart", authRequired, c.RecipeHandler.RemoveFromShoppingCart)
	}
}

func (c *Config) ShortLink() {
	c.App.Get("/s/:id", c.RecipeHandler.ResolveLink)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
