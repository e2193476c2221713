package recipe

import (
	"sort"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/user"

	"github.com/google/uuid"
)

// viewerState is what the current viewer knows about a batch of recipes.
type viewerState struct {
	subscribed map[uuid.UUID]bool
	favorited  map[uuid.UUID]bool
	inCart     map[uuid.UUID]bool
}

func emptyViewerState() viewerState {
	return viewerState{
		subscribed: map[uuid.UUID]bool{},
		favorited:  map[uuid.UUID]bool{},
		inCart:     map[uuid.UUID]bool{},
	}
}

func toReadShape(recipe *entities.Recipe, state viewerState) domain.RecipeResponse {
	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.RecipeIngredients))
	for _, item := range recipe.RecipeIngredients {
		row := domain.RecipeIngredientResponse{
			ID:     item.IngredientID.String(),
			Amount: item.Amount,
		}
		if item.Ingredient != nil {
			row.Name = item.Ingredient.Name
			row.MeasurementUnit = item.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, row)
	}
	sort.SliceStable(ingredients, func(i, j int) bool {
		return ingredients[i].Name < ingredients[j].Name
	})

	var author domain.UserResponse
	if recipe.Author != nil {
		author = user.ToUserResponse(recipe.Author, state.subscribed[recipe.AuthorID])
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      state.favorited[recipe.ID],
		IsInShoppingCart: state.inCart[recipe.ID],
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func toShortShape(recipe *entities.Recipe) domain.ShortRecipeResponse {
	return domain.ShortRecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// fromWriteShape builds the recipe row and its ingredient rows from a
// validated write request. ingredients holds the catalogue row of each
// request row, in the same order.
func fromWriteShape(req domain.RecipeWriteRequest, recipe *entities.Recipe, ingredients []*entities.Ingredient) []*entities.RecipeIngredient {
	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	items := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for i, row := range req.Ingredients {
		ingredient := ingredients[i]
		items = append(items, &entities.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Amount:       row.Amount,
			Ingredient:   ingredient,
		})
	}
	return items
}
