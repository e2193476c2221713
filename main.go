package main

import (
	"context"
	"flag"
	"fmt"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/cmd/database/seed"
	"foodgram/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	demoUsers := flag.Int("seed-demo", 0, "create this many demo users with recipes")
	flag.Parse()

	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	if _, err := seed.SeedIngredients(ctx, db, utils.GetConfig("INGREDIENTS_PATH")); err != nil {
		log.Warnf("ingredient catalogue not loaded: %v", err)
	}
	if *demoUsers > 0 {
		if err := seed.SeedDemo(ctx, db, *demoUsers); err != nil {
			log.Warnf("demo content not loaded: %v", err)
		}
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	if err := app.Listen(fmt.Sprintf(":%s", utils.GetConfig("PORT"))); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
