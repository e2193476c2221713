package ingredient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/cache"

	"github.com/google/uuid"
)

const (
	listCachePrefix = "ingredients:list:"
	listCacheTTL    = 10 * time.Minute
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, filter domain.IngredientFilter) ([]domain.IngredientResponse, error)
		GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error)
		// ResolveIngredients loads every referenced ingredient, failing when any id is unknown.
		ResolveIngredients(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Ingredient, error)
		ImportIngredients(ctx context.Context, items []domain.IngredientResponse) (int, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		cache                *cache.Cache
	}
)

func NewIngredientService(ingredientRepository IngredientRepository, cache *cache.Cache) IngredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		cache:                cache,
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context, filter domain.IngredientFilter) ([]domain.IngredientResponse, error) {
	prefix := strings.TrimSpace(filter.Name)
	key := listCachePrefix + strings.ToLower(prefix)

	var response []domain.IngredientResponse
	err := s.cache.Aside(ctx, key, &response, listCacheTTL, func() error {
		ingredients, err := s.ingredientRepository.GetIngredients(ctx, prefix)
		if err != nil {
			return err
		}
		response = make([]domain.IngredientResponse, 0, len(ingredients))
		for _, i := range ingredients {
			response = append(response, toIngredientResponse(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.IngredientResponse{}, domain.ErrIngredientNotFound
	}
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return toIngredientResponse(ingredient), nil
}

func (s *ingredientService) ResolveIngredients(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Ingredient, error) {
	ingredients, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resolved := make(map[uuid.UUID]*entities.Ingredient, len(ingredients))
	for _, i := range ingredients {
		resolved[i.ID] = i
	}
	for _, id := range ids {
		if _, ok := resolved[id]; !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("ingredient %s does not exist", id))
		}
	}
	return resolved, nil
}

// ImportIngredients loads a catalogue into an empty table and drops cached lists.
func (s *ingredientService) ImportIngredients(ctx context.Context, items []domain.IngredientResponse) (int, error) {
	count, err := s.ingredientRepository.CountIngredients(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	ingredients := make([]*entities.Ingredient, 0, len(items))
	for _, item := range items {
		ingredients = append(ingredients, &entities.Ingredient{
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
		})
	}
	if err := s.ingredientRepository.CreateIngredients(ctx, ingredients); err != nil {
		return 0, err
	}
	if err := s.cache.DeletePrefix(ctx, listCachePrefix); err != nil {
		return 0, err
	}
	return len(ingredients), nil
}

func toIngredientResponse(i *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}
