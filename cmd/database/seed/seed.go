// Package seed loads the ingredient catalogue and optional demo content.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/recipe"
	"foodgram/pkg/user"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "foodgram123"

// SeedIngredients imports the JSON catalogue at path into an empty
// ingredients table. It returns how many rows were added.
func SeedIngredients(ctx context.Context, db *gorm.DB, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read ingredients catalogue: %w", err)
	}

	var items []domain.IngredientResponse
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, fmt.Errorf("decode ingredients catalogue: %w", err)
	}

	service := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db), nil)
	added, err := service.ImportIngredients(ctx, items)
	if err != nil {
		return 0, err
	}
	log.Infof("seeded %d ingredients from %s", added, path)
	return added, nil
}

// SeedDemo creates n fake users, each with one recipe built from the
// existing catalogue. Every demo user logs in with demoPassword.
func SeedDemo(ctx context.Context, db *gorm.DB, n int) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	ingredients, err := ingredient.NewIngredientRepository(db).GetIngredients(ctx, "")
	if err != nil {
		return err
	}
	if len(ingredients) == 0 {
		return fmt.Errorf("seed ingredients before demo content")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := user.NewUserRepository(db)
	recipes := recipe.NewRecipeRepository(db)

	for i := 0; i < n; i++ {
		author := &entities.User{
			ID:        uuid.New(),
			Email:     gofakeit.Email(),
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Password:  string(hashed),
		}
		if err := users.CreateUser(ctx, author); err != nil {
			return err
		}

		dish := &entities.Recipe{
			ID:          uuid.New(),
			AuthorID:    author.ID,
			Name:        gofakeit.Dinner(),
			Text:        gofakeit.Paragraph(1, 3, 8, "\n"),
			Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			CookingTime: gofakeit.Number(domain.MinCookingTime, 180),
			PubDate:     time.Now(),
		}

		picked := r.Perm(len(ingredients))
		count := 1 + r.Intn(min(5, len(ingredients)))
		items := make([]*entities.RecipeIngredient, 0, count)
		for _, idx := range picked[:count] {
			items = append(items, &entities.RecipeIngredient{
				IngredientID: ingredients[idx].ID,
				Amount:       gofakeit.Number(domain.MinIngredientAmount, 500),
			})
		}
		if err := recipes.CreateRecipe(ctx, dish, items); err != nil {
			return err
		}
	}

	log.Infof("seeded %d demo users with recipes", n)
	return nil
}
