package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const avatarFolder = "users/avatars"

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error)
		SetAvatar(ctx context.Context, req domain.AvatarRequest, userID string) (domain.AvatarResponse, error)
		DeleteAvatar(ctx context.Context, userID string) error
		SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error
	}

	userService struct {
		userRepository   UserRepository
		followRepository FollowRepository
		jwtService       jwt.JWTService
		imageStore       storage.ImageStore
	}
)

func NewUserService(
	userRepository UserRepository,
	followRepository FollowRepository,
	jwtService jwt.JWTService,
	imageStore storage.ImageStore,
) UserService {
	return &userService{
		userRepository:   userRepository,
		followRepository: followRepository,
		jwtService:       jwtService,
		imageStore:       imageStore,
	}
}

// ParseID parses a path or token id; a malformed id cannot name an existing row.
func ParseID(id string, notFound error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound
	}
	return parsed, nil
}

// ToUserResponse renders the user summary shape.
func ToUserResponse(u *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		Email:        u.Email,
		ID:           u.ID.String(),
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.Avatar,
	}
}

// ViewerSubscriptions reports which of authorIDs the viewer follows. An
// anonymous viewer follows nobody.
func ViewerSubscriptions(ctx context.Context, follows FollowRepository, viewerID string, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	viewer, err := uuid.Parse(viewerID)
	if err != nil {
		return map[uuid.UUID]bool{}, nil
	}
	return follows.SubscribedAuthorIDs(ctx, viewer, authorIDs)
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if err := domain.ValidateUsername(req.Username); err != nil {
		return domain.RegisterResponse{}, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.userRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if taken {
		return domain.RegisterResponse{}, domain.ErrEmailTaken
	}
	taken, err = s.userRepository.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if taken {
		return domain.RegisterResponse{}, domain.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}
	log.Infof("user registered: %s", user.ID)

	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String())
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, false), nil
}

func (s *userService) GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	subscribed, err := ViewerSubscriptions(ctx, s.followRepository, viewerID, []uuid.UUID{user.ID})
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user, subscribed[user.ID]), nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, viewerID string) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := ViewerSubscriptions(ctx, s.followRepository, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, ToUserResponse(u, subscribed[u.ID]))
	}
	return response, count, nil
}

func (s *userService) SetAvatar(ctx context.Context, req domain.AvatarRequest, userID string) (domain.AvatarResponse, error) {
	if strings.TrimSpace(req.Avatar) == "" {
		return domain.AvatarResponse{}, domain.ErrAvatarRequired
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	objectKey, err := s.imageStore.UploadBase64(ctx, req.Avatar, avatarFolder)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyPayload) || errors.Is(err, storage.ErrInvalidPayload) || errors.Is(err, storage.ErrNotAnImage) {
			return domain.AvatarResponse{}, domain.NewValidationError(err.Error())
		}
		return domain.AvatarResponse{}, err
	}

	previous := user.Avatar
	user.Avatar = s.imageStore.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		_ = s.imageStore.DeleteFile(ctx, objectKey)
		return domain.AvatarResponse{}, err
	}
	s.deleteImage(ctx, previous)

	return domain.AvatarResponse{Avatar: user.Avatar}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return domain.ErrAvatarAbsent
	}

	previous := user.Avatar
	user.Avatar = ""
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return err
	}
	s.deleteImage(ctx, previous)
	return nil
}

func (s *userService) SetPassword(ctx context.Context, req domain.SetPasswordRequest, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	userID, err := ParseID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return s.userRepository.GetUserByID(ctx, userID)
}

func (s *userService) deleteImage(ctx context.Context, link string) {
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
