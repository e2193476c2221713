// File: entities/recipe.go
package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"not null" json:"image"`
	CookingTime int       `gorm:"not null;check:chk_recipes_cooking_time,cooking_time BETWEEN 1 AND 32000" json:"cooking_time"`
	PubDate     time.Time `gorm:"autoUpdateTime;index" json:"pub_date"`

	Author            *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	RecipeIngredients []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	return nil
}

// RecipeIngredient holds the amount of one ingredient in one recipe.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredients_pair" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredients_pair;index" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:chk_recipe_ingredients_amount,amount BETWEEN 1 AND 32000" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	newID(&ri.ID)
	return nil
}

// UserRecipe is the (user, recipe) pair shared by favorites and shopping carts.
// The pair is unique per table.
type UserRecipe struct {
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:user_recipe" json:"user_id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:,composite:user_recipe;index" json:"recipe_id"`
}

type Favorite struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserRecipe
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	newID(&f.ID)
	return nil
}

type ShoppingCart struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserRecipe
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (s *ShoppingCart) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return nil
}
