package subscription

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/pkg/recipe"
	"foodgram/pkg/user"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, authorID string, subscriberID string, recipesLimit int) (domain.UserWithRecipesResponse, error)
		Unsubscribe(ctx context.Context, authorID string, subscriberID string) error
		GetSubscriptions(ctx context.Context, subscriberID string, page, limit, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error)
	}

	subscriptionService struct {
		userRepository   user.UserRepository
		followRepository user.FollowRepository
		recipeService    recipe.RecipeService
	}
)

func NewSubscriptionService(
	userRepository user.UserRepository,
	followRepository user.FollowRepository,
	recipeService recipe.RecipeService,
) SubscriptionService {
	return &subscriptionService{
		userRepository:   userRepository,
		followRepository: followRepository,
		recipeService:    recipeService,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, authorID string, subscriberID string, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	subscriber, err := user.ParseID(subscriberID, domain.ErrUserNotFound)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}
	author, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}
	if author.ID == subscriber {
		return domain.UserWithRecipesResponse{}, domain.ErrSelfSubscription
	}

	// The unique index still decides a concurrent duplicate.
	subscribed, err := s.followRepository.IsSubscribed(ctx, subscriber, author.ID)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}
	if subscribed {
		return domain.UserWithRecipesResponse{}, domain.ErrAlreadySubscribed
	}
	if err := s.followRepository.CreateFollow(ctx, subscriber, author.ID); err != nil {
		return domain.UserWithRecipesResponse{}, err
	}

	return s.withRecipes(ctx, author, true, recipesLimit)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, authorID string, subscriberID string) error {
	subscriber, err := user.ParseID(subscriberID, domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	author, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return err
	}

	deleted, err := s.followRepository.DeleteFollow(ctx, subscriber, author.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, subscriberID string, page, limit, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error) {
	subscriber, err := user.ParseID(subscriberID, domain.ErrUserNotFound)
	if err != nil {
		return nil, 0, err
	}

	authors, count, err := s.followRepository.GetSubscriptions(ctx, subscriber, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.UserWithRecipesResponse, 0, len(authors))
	for _, author := range authors {
		row, err := s.withRecipes(ctx, author, true, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		response = append(response, row)
	}
	return response, count, nil
}

func (s *subscriptionService) getAuthor(ctx context.Context, authorID string) (*entities.User, error) {
	id, err := user.ParseID(authorID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return s.userRepository.GetUserByID(ctx, id)
}

func (s *subscriptionService) withRecipes(ctx context.Context, author *entities.User, subscribed bool, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	recipes, count, err := s.recipeService.GetAuthorRecipes(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}
	return domain.UserWithRecipesResponse{
		UserResponse: user.ToUserResponse(author, subscribed),
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}
