package domain

import (
	"fmt"
	"strings"
)

var (
	MessageSuccessGetRecipes         = "success get recipes"
	MessageSuccessGetRecipeDetail    = "success get recipe detail"
	MessageSuccessCreateRecipe       = "recipe created successfully"
	MessageSuccessUpdateRecipe       = "recipe updated successfully"
	MessageSuccessDeleteRecipe       = "recipe deleted successfully"
	MessageSuccessAddFavorite        = "recipe added to favorites"
	MessageSuccessRemoveFavorite     = "recipe removed from favorites"
	MessageSuccessAddShoppingCart    = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart = "recipe removed from shopping cart"
	MessageSuccessGetLink            = "success get recipe link"
	MessageSuccessSendShoppingList   = "shopping list sent"

	MessageFailedGetRecipes         = "failed to get recipes"
	MessageFailedGetRecipeDetail    = "failed to get recipe detail"
	MessageFailedCreateRecipe       = "failed to create recipe"
	MessageFailedUpdateRecipe       = "failed to update recipe"
	MessageFailedDeleteRecipe       = "failed to delete recipe"
	MessageFailedFavorite           = "failed to update favorites"
	MessageFailedShoppingCart       = "failed to update shopping cart"
	MessageFailedGetLink            = "failed to get recipe link"
	MessageFailedExportShoppingList = "failed to export shopping list"
	MessageFailedSendShoppingList   = "failed to send shopping list"

	ErrRecipeNotFound           = NewNotFoundError("recipe")
	ErrUnauthorizedRecipeAccess = NewPermissionError("only the author can change this recipe")
	ErrNoIngredients            = NewValidationError("ingredients are required")
	ErrNonUniqueIngredients     = NewValidationError("non-unique ingredients")
	ErrEmptyImage               = NewValidationError("image is required")
	ErrEmptyRecipeName          = NewValidationError("name is required")
	ErrRecipeNameTooLong        = NewValidationError(fmt.Sprintf("name must be at most %d characters", MaxRecipeNameLength))
	ErrEmptyRecipeText          = NewValidationError("text is required")

	ErrAlreadyInFavorites = NewConflictError("recipe is already in favorites")
	ErrNotInFavorites     = NewValidationError("recipe is not in favorites")
	ErrAlreadyInCart      = NewConflictError("recipe is already in shopping cart")
	ErrNotInCart          = NewValidationError("recipe is not in shopping cart")
)

// RecipeLinkPath is where short links redirect.
const RecipeLinkPath = "/recipes/%s"

// ToggleAction selects the direction of a favorite/cart toggle.
type ToggleAction int

const (
	ToggleAdd ToggleAction = iota
	ToggleRemove
)

// Collection names a (user, recipe) join table.
type Collection string

const (
	CollectionFavorites    Collection = "favorites"
	CollectionShoppingCart Collection = "shopping_cart"
)

type (
	RecipeFilter struct {
		Author           string `query:"author"`
		IsFavorited      bool   `query:"is_favorited"`
		IsInShoppingCart bool   `query:"is_in_shopping_cart"`
	}

	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required"`
		Amount int    `json:"amount" validate:"min=1,max=32000"`
	}

	// RecipeWriteRequest is the write shape of a recipe. Image holds an encoded
	// payload; nil on update keeps the stored image.
	RecipeWriteRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		Image       *string                   `json:"image"`
		CookingTime int                       `json:"cooking_time" validate:"min=1,max=32000"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	// RecipeResponse is the read shape of a recipe.
	RecipeResponse struct {
		ID               string                     `json:"id"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	// ShortRecipeResponse is the short shape used when embedding recipes.
	ShortRecipeResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeLinkResponse struct {
		ShortLink string `json:"short-link"`
	}

	ShoppingListItem struct {
		Name   string `json:"name"`
		Unit   string `json:"unit"`
		Amount int64  `json:"amount"`
	}

	// ShoppingList is the aggregated content of a user's cart.
	ShoppingList struct {
		Username string
		Recipes  []string
		Items    []ShoppingListItem
	}
)

// Render produces the plain-text report of the list.
func (l ShoppingList) Render() string {
	lines := []string{
		fmt.Sprintf("Shopping list of %s", l.Username),
		"___________________________",
		"Recipes:",
	}
	for _, name := range l.Recipes {
		lines = append(lines, "- "+name)
	}
	lines = append(lines, "", "Ingredients:")
	for i, item := range l.Items {
		lines = append(lines, fmt.Sprintf("%d. %s — %d %s", i+1, item.Name, item.Amount, item.Unit))
	}
	return strings.Join(lines, "\n")
}
