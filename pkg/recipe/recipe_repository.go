package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// RecipeQuery narrows a recipe listing. Nil fields do not filter.
	RecipeQuery struct {
		AuthorID    *uuid.UUID
		FavoritedBy *uuid.UUID
		InCartOf    *uuid.UUID
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, items []*entities.RecipeIngredient) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, items []*entities.RecipeIngredient) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, query RecipeQuery, page, limit int) ([]*entities.Recipe, int64, error)
		RecipeExists(ctx context.Context, id uuid.UUID) (bool, error)
		GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)

		AddToCollection(ctx context.Context, collection domain.Collection, userID, recipeID uuid.UUID) error
		RemoveFromCollection(ctx context.Context, collection domain.Collection, userID, recipeID uuid.UUID) (bool, error)
		IsInCollection(ctx context.Context, collection domain.Collection, userID, recipeID uuid.UUID) (bool, error)
		CollectionRecipeIDs(ctx context.Context, collection domain.Collection, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)

		GetCartRecipeNames(ctx context.Context, userID uuid.UUID) ([]string, error)
		GetShoppingListItems(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, items []*entities.RecipeIngredient) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return createItems(tx, recipe.ID, items)
	})
	return translateWriteError(err)
}

// UpdateRecipe replaces the recipe fields and its whole ingredient set.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, items []*entities.RecipeIngredient) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return createItems(tx, recipe.ID, items)
	})
	return translateWriteError(err)
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&entities.RecipeIngredient{}, &entities.Favorite{}, &entities.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := withDetails(r.db.WithContext(ctx)).Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, query RecipeQuery, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.filter(ctx, query).Model(&entities.Recipe{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := withDetails(r.filter(ctx, query)).
		Offset(offset).
		Limit(limit).
		Order("recipes.pub_date desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) RecipeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	recipes := []*entities.Recipe{}
	if limit <= 0 {
		return recipes, nil
	}
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountRecipesByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) AddToCollection(ctx context.Context, collection domain.Collection, userID, recipeID uuid.UUID) error {
	pair := entities.UserRecipe{UserID: userID, RecipeID: recipeID}

	var entry any
	switch collection {
	case domain.CollectionShoppingCart:
		entry = &entities.ShoppingCart{UserRecipe: pair}
	default:
		entry = &entities.Favorite{UserRecipe: pair}
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return alreadyInCollection(collection)
		}
		return err
	}
	return nil
}

func (r *recipeRepository) RemoveFromCollection(ctx context.Context, collection domain.Collection, userID, recipeID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(collectionModel(collection))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *recipeRepository) IsInCollection(ctx context.Context, collection domain.Collection, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(collectionModel(collection)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CollectionRecipeIDs reports which of recipeIDs are in the user's collection.
func (r *recipeRepository) CollectionRecipeIDs(ctx context.Context, collection domain.Collection, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return found, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(collectionModel(collection)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

func (r *recipeRepository) GetCartRecipeNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	names := []string{}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Joins("JOIN shopping_carts sc ON sc.recipe_id = recipes.id").
		Where("sc.user_id = ?", userID).
		Order("recipes.name").
		Pluck("recipes.name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// GetShoppingListItems sums amounts per (ingredient name, unit) across the
// user's cart.
func (r *recipeRepository) GetShoppingListItems(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error) {
	items := []domain.ShoppingListItem{}
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients ri").
		Select("i.name AS name, i.measurement_unit AS unit, SUM(ri.amount) AS amount").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_carts sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *recipeRepository) filter(ctx context.Context, query RecipeQuery) *gorm.DB {
	db := r.db.WithContext(ctx)
	if query.AuthorID != nil {
		db = db.Where("recipes.author_id = ?", *query.AuthorID)
	}
	if query.FavoritedBy != nil {
		db = db.Where("recipes.id IN (?)",
			r.db.Model(&entities.Favorite{}).Select("recipe_id").Where("user_id = ?", *query.FavoritedBy))
	}
	if query.InCartOf != nil {
		db = db.Where("recipes.id IN (?)",
			r.db.Model(&entities.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *query.InCartOf))
	}
	return db
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("RecipeIngredients").
		Preload("RecipeIngredients.Ingredient")
}

func createItems(tx *gorm.DB, recipeID uuid.UUID, items []*entities.RecipeIngredient) error {
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		item.RecipeID = recipeID
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func translateWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrNonUniqueIngredients
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return domain.NewValidationError("amount and cooking time must be between 1 and 32000")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.NewValidationError("referenced ingredient does not exist")
	}
	return err
}

func collectionModel(collection domain.Collection) any {
	if collection == domain.CollectionShoppingCart {
		return &entities.ShoppingCart{}
	}
	return &entities.Favorite{}
}

func alreadyInCollection(collection domain.Collection) error {
	if collection == domain.CollectionShoppingCart {
		return domain.ErrAlreadyInCart
	}
	return domain.ErrAlreadyInFavorites
}

func notInCollection(collection domain.Collection) error {
	if collection == domain.CollectionShoppingCart {
		return domain.ErrNotInCart
	}
	return domain.ErrNotInFavorites
}
