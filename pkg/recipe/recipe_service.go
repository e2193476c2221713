package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	imageFolder          = "recipes/images"
	ShoppingListFilename = "shopping_list.txt"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error)
		GetRecipe(ctx context.Context, id string, viewerID string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.RecipeWriteRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, req domain.RecipeWriteRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string, userID string) error

		ToggleFavorite(ctx context.Context, id string, userID string, action domain.ToggleAction) (*domain.ShortRecipeResponse, error)
		ToggleShoppingCart(ctx context.Context, id string, userID string, action domain.ToggleAction) (*domain.ShortRecipeResponse, error)

		ExportShoppingList(ctx context.Context, userID string) (domain.ShoppingList, error)
		SendShoppingList(ctx context.Context, userID string) error

		GetRecipeLink(ctx context.Context, id string) (domain.RecipeLinkResponse, error)
		ResolveRecipeLink(ctx context.Context, id string) (string, error)

		// GetAuthorRecipes returns up to limit of the author's newest recipes
		// in the short shape, plus the author's total recipe count.
		GetAuthorRecipes(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.ShortRecipeResponse, int64, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		userRepository    user.UserRepository
		followRepository  user.FollowRepository
		ingredientService ingredient.IngredientService
		imageStore        storage.ImageStore
		mailer            mailing.Mailer
		appURL            string
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	userRepository user.UserRepository,
	followRepository user.FollowRepository,
	ingredientService ingredient.IngredientService,
	imageStore storage.ImageStore,
	mailer mailing.Mailer,
	appURL string,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		userRepository:    userRepository,
		followRepository:  followRepository,
		ingredientService: ingredientService,
		imageStore:        imageStore,
		mailer:            mailer,
		appURL:            strings.TrimRight(appURL, "/"),
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error) {
	var query RecipeQuery
	if filter.Author != "" {
		authorID, err := uuid.Parse(filter.Author)
		if err != nil {
			return []domain.RecipeResponse{}, 0, nil
		}
		query.AuthorID = &authorID
	}
	// Collection filters only narrow for a known viewer.
	if viewer, err := uuid.Parse(viewerID); err == nil {
		if filter.IsFavorited {
			query.FavoritedBy = &viewer
		}
		if filter.IsInShoppingCart {
			query.InCartOf = &viewer
		}
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, query, page, limit)
	if err != nil {
		return nil, 0, err
	}

	state, err := s.viewerState(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		response = append(response, toReadShape(recipe, state))
	}
	return response, count, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, id string, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return s.present(ctx, recipe, viewerID)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeWriteRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := user.ParseID(userID, domain.ErrUserNotFound)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if req.Image == nil || strings.TrimSpace(*req.Image) == "" {
		return domain.RecipeResponse{}, domain.ErrEmptyImage
	}
	ingredients, err := s.validateWrite(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	objectKey, err := s.uploadImage(ctx, *req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:       uuid.New(),
		AuthorID: authorID,
		Image:    s.imageStore.GetPublicLinkKey(objectKey),
		PubDate:  time.Now(),
	}
	items := fromWriteShape(req, recipe, ingredients)

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, items); err != nil {
		s.discardUpload(ctx, objectKey)
		return domain.RecipeResponse{}, err
	}
	log.Infof("recipe %s created by %s", recipe.ID, authorID)

	recipe.Author = author
	recipe.RecipeIngredients = items
	return s.present(ctx, recipe, userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.RecipeWriteRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}
	if req.Image != nil && strings.TrimSpace(*req.Image) == "" {
		return domain.RecipeResponse{}, domain.ErrEmptyImage
	}
	ingredients, err := s.validateWrite(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	previousImage := ""
	newObjectKey := ""
	if req.Image != nil {
		newObjectKey, err = s.uploadImage(ctx, *req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		previousImage = recipe.Image
		recipe.Image = s.imageStore.GetPublicLinkKey(newObjectKey)
	}

	items := fromWriteShape(req, recipe, ingredients)
	recipe.PubDate = time.Now()

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, items); err != nil {
		if newObjectKey != "" {
			s.discardUpload(ctx, newObjectKey)
		}
		return domain.RecipeResponse{}, err
	}
	s.deleteImage(ctx, previousImage)

	recipe.RecipeIngredients = items
	return s.present(ctx, recipe, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string, userID string) error {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID.String() != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}
	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	s.deleteImage(ctx, recipe.Image)
	return nil
}

func (s *recipeService) ToggleFavorite(ctx context.Context, id string, userID string, action domain.ToggleAction) (*domain.ShortRecipeResponse, error) {
	return s.toggle(ctx, domain.CollectionFavorites, id, userID, action)
}

func (s *recipeService) ToggleShoppingCart(ctx context.Context, id string, userID string, action domain.ToggleAction) (*domain.ShortRecipeResponse, error) {
	return s.toggle(ctx, domain.CollectionShoppingCart, id, userID, action)
}

// toggle adds or removes the (user, recipe) pair. Add answers with the short
// shape; remove answers with nothing.
func (s *recipeService) toggle(ctx context.Context, collection domain.Collection, id string, userID string, action domain.ToggleAction) (*domain.ShortRecipeResponse, error) {
	uid, err := user.ParseID(userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	if action == domain.ToggleRemove {
		removed, err := s.recipeRepository.RemoveFromCollection(ctx, collection, uid, recipe.ID)
		if err != nil {
			return nil, err
		}
		if !removed {
			return nil, notInCollection(collection)
		}
		return nil, nil
	}

	present, err := s.recipeRepository.IsInCollection(ctx, collection, uid, recipe.ID)
	if err != nil {
		return nil, err
	}
	if present {
		return nil, alreadyInCollection(collection)
	}
	if err := s.recipeRepository.AddToCollection(ctx, collection, uid, recipe.ID); err != nil {
		return nil, err
	}

	short := toShortShape(recipe)
	return &short, nil
}

func (s *recipeService) ExportShoppingList(ctx context.Context, userID string) (domain.ShoppingList, error) {
	_, list, err := s.shoppingList(ctx, userID)
	return list, err
}

// SendShoppingList mails the rendered list to the owner as an attachment.
func (s *recipeService) SendShoppingList(ctx context.Context, userID string) error {
	owner, list, err := s.shoppingList(ctx, userID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Hello %s,\n\nyour shopping list is attached.", owner.FirstName)
	return s.mailer.SendMail(owner.Email, "Your shopping list", body, mailing.Attachment{
		Filename: ShoppingListFilename,
		Content:  []byte(list.Render()),
	})
}

func (s *recipeService) shoppingList(ctx context.Context, userID string) (*entities.User, domain.ShoppingList, error) {
	uid, err := user.ParseID(userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, domain.ShoppingList{}, err
	}
	owner, err := s.userRepository.GetUserByID(ctx, uid)
	if err != nil {
		return nil, domain.ShoppingList{}, err
	}

	names, err := s.recipeRepository.GetCartRecipeNames(ctx, uid)
	if err != nil {
		return nil, domain.ShoppingList{}, err
	}
	items, err := s.recipeRepository.GetShoppingListItems(ctx, uid)
	if err != nil {
		return nil, domain.ShoppingList{}, err
	}

	return owner, domain.ShoppingList{
		Username: owner.Username,
		Recipes:  names,
		Items:    items,
	}, nil
}

func (s *recipeService) GetRecipeLink(ctx context.Context, id string) (domain.RecipeLinkResponse, error) {
	recipeID, err := s.existingRecipeID(ctx, id)
	if err != nil {
		return domain.RecipeLinkResponse{}, err
	}
	return domain.RecipeLinkResponse{
		ShortLink: fmt.Sprintf("%s/s/%s", s.appURL, recipeID),
	}, nil
}

func (s *recipeService) ResolveRecipeLink(ctx context.Context, id string) (string, error) {
	recipeID, err := s.existingRecipeID(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(domain.RecipeLinkPath, recipeID), nil
}

func (s *recipeService) GetAuthorRecipes(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.ShortRecipeResponse, int64, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.recipeRepository.CountRecipesByAuthor(ctx, authorID)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ShortRecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		response = append(response, toShortShape(recipe))
	}
	return response, count, nil
}

// validateWrite checks a write request and returns the catalogue row of each
// listed ingredient, in request order.
func (s *recipeService) validateWrite(ctx context.Context, req domain.RecipeWriteRequest) ([]*entities.Ingredient, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrEmptyRecipeName
	}
	if utf8.RuneCountInString(req.Name) > domain.MaxRecipeNameLength {
		return nil, domain.ErrRecipeNameTooLong
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, domain.ErrEmptyRecipeText
	}
	if err := domain.ValidateCookingTime(req.CookingTime); err != nil {
		return nil, err
	}
	if len(req.Ingredients) == 0 {
		return nil, domain.ErrNoIngredients
	}

	ids := make([]uuid.UUID, 0, len(req.Ingredients))
	seen := make(map[uuid.UUID]bool, len(req.Ingredients))
	for _, row := range req.Ingredients {
		if err := domain.ValidateAmount(row.Amount); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(strings.TrimSpace(row.ID))
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid ingredient id %q", row.ID))
		}
		if seen[id] {
			return nil, domain.ErrNonUniqueIngredients
		}
		seen[id] = true
		ids = append(ids, id)
	}

	resolved, err := s.ingredientService.ResolveIngredients(ctx, ids)
	if err != nil {
		return nil, err
	}
	ingredients := make([]*entities.Ingredient, 0, len(ids))
	for _, id := range ids {
		ingredients = append(ingredients, resolved[id])
	}
	return ingredients, nil
}

func (s *recipeService) getRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	recipeID, err := user.ParseID(id, domain.ErrRecipeNotFound)
	if err != nil {
		return nil, err
	}
	return s.recipeRepository.GetRecipeByID(ctx, recipeID)
}

func (s *recipeService) existingRecipeID(ctx context.Context, id string) (uuid.UUID, error) {
	recipeID, err := user.ParseID(id, domain.ErrRecipeNotFound)
	if err != nil {
		return uuid.Nil, err
	}
	exists, err := s.recipeRepository.RecipeExists(ctx, recipeID)
	if err != nil {
		return uuid.Nil, err
	}
	if !exists {
		return uuid.Nil, domain.ErrRecipeNotFound
	}
	return recipeID, nil
}

// present renders a single recipe in the read shape. Writes are answered the
// same way.
func (s *recipeService) present(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	state, err := s.viewerState(ctx, viewerID, []*entities.Recipe{recipe})
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toReadShape(recipe, state), nil
}

// viewerState loads subscription and collection flags for a batch in three
// queries regardless of its size.
func (s *recipeService) viewerState(ctx context.Context, viewerID string, recipes []*entities.Recipe) (viewerState, error) {
	state := emptyViewerState()
	viewer, err := uuid.Parse(viewerID)
	if err != nil || len(recipes) == 0 {
		return state, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	if state.subscribed, err = s.followRepository.SubscribedAuthorIDs(ctx, viewer, authorIDs); err != nil {
		return state, err
	}
	if state.favorited, err = s.recipeRepository.CollectionRecipeIDs(ctx, domain.CollectionFavorites, viewer, recipeIDs); err != nil {
		return state, err
	}
	if state.inCart, err = s.recipeRepository.CollectionRecipeIDs(ctx, domain.CollectionShoppingCart, viewer, recipeIDs); err != nil {
		return state, err
	}
	return state, nil
}

func (s *recipeService) uploadImage(ctx context.Context, payload string) (string, error) {
	objectKey, err := s.imageStore.UploadBase64(ctx, payload, imageFolder)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyPayload) || errors.Is(err, storage.ErrInvalidPayload) || errors.Is(err, storage.ErrNotAnImage) {
			return "", domain.NewValidationError(err.Error())
		}
		return "", err
	}
	return objectKey, nil
}

// discardUpload removes an image uploaded for a write that did not commit.
func (s *recipeService) discardUpload(ctx context.Context, objectKey string) {
	if err := s.imageStore.DeleteFile(ctx, objectKey); err != nil {
		log.Warnf("failed to discard uploaded image %s: %v", objectKey, err)
	}
}

func (s *recipeService) deleteImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	objectKey := s.imageStore.GetObjectKeyFromLink(link)
	if objectKey == "" {
		return
	}
	if err := s.imageStore.DeleteFile(ctx, objectKey); err != nil {
		log.Warnf("failed to delete image %s: %v", objectKey, err)
	}
}
