package user

import (
	"context"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/internal/testutil"
	"foodgram/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	service UserService
	follows FollowRepository
	jwt     jwt.JWTService
	images  *testutil.ImageStoreStub
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	images := testutil.NewImageStoreStub()
	follows := NewFollowRepository(db)
	jwtService := jwt.NewJWTService("test-secret")
	return &userFixture{
		service: NewUserService(NewUserRepository(db), follows, jwtService, images),
		follows: follows,
		jwt:     jwtService,
		images:  images,
	}
}

func registerRequest(username string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "s3cret-pass",
	}
}

func (f *userFixture) register(t *testing.T, username string) domain.RegisterResponse {
	t.Helper()
	res, err := f.service.Register(context.Background(), registerRequest(username))
	require.NoError(t, err)
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	registered := f.register(t, "anna")
	assert.Equal(t, "anna", registered.Username)
	assert.Equal(t, "anna@example.com", registered.Email)

	login, err := f.service.Login(ctx, domain.LoginRequest{Email: "ANNA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, login.AuthToken)

	userID, err := f.jwt.GetUserIDByToken(login.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegister_Conflicts(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	f.register(t, "anna")

	_, err := f.service.Register(ctx, registerRequest("anna"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	req := registerRequest("anna")
	req.Email = "other@example.com"
	_, err = f.service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegister_RejectsBadUsername(t *testing.T) {
	f := newUserFixture(t)
	for _, username := range []string{"has space", "bad!", strings.Repeat("a", 151)} {
		_, err := f.service.Register(context.Background(), registerRequest(username))
		require.Error(t, err, username)
		assert.True(t, domain.IsKind(err, domain.KindValidation), username)
	}
}

func TestGetUser_IsSubscribed(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	anna := f.register(t, "anna")
	boris := f.register(t, "boris")

	got, err := f.service.GetUser(ctx, anna.ID, boris.ID)
	require.NoError(t, err)
	assert.False(t, got.IsSubscribed)

	require.NoError(t, f.follows.CreateFollow(ctx, uuid.MustParse(boris.ID), uuid.MustParse(anna.ID)))

	got, err = f.service.GetUser(ctx, anna.ID, boris.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)

	got, err = f.service.GetUser(ctx, anna.ID, "")
	require.NoError(t, err)
	assert.False(t, got.IsSubscribed)

	_, err = f.service.GetUser(ctx, uuid.NewString(), "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = f.service.GetUser(ctx, "abc", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUsers_Paginated(t *testing.T) {
	f := newUserFixture(t)
	for _, name := range []string{"carol", "anna", "boris"} {
		f.register(t, name)
	}

	users, count, err := f.service.GetUsers(context.Background(), 1, 2, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	require.Len(t, users, 2)
	assert.Equal(t, "anna", users[0].Username)
	assert.Equal(t, "boris", users[1].Username)
}

func TestAvatarLifecycle(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	anna := f.register(t, "anna")

	err := f.service.DeleteAvatar(ctx, anna.ID)
	assert.ErrorIs(t, err, domain.ErrAvatarAbsent)

	_, err = f.service.SetAvatar(ctx, domain.AvatarRequest{}, anna.ID)
	assert.ErrorIs(t, err, domain.ErrAvatarRequired)

	first, err := f.service.SetAvatar(ctx, domain.AvatarRequest{Avatar: testutil.PNGDataURI}, anna.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Avatar, "https://media.test/users/avatars/"))

	second, err := f.service.SetAvatar(ctx, domain.AvatarRequest{Avatar: testutil.PNGDataURI}, anna.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)
	assert.Equal(t, 1, f.images.Count())

	me, err := f.service.Me(ctx, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Avatar, me.Avatar)

	require.NoError(t, f.service.DeleteAvatar(ctx, anna.ID))
	assert.Equal(t, 0, f.images.Count())

	me, err = f.service.Me(ctx, anna.ID)
	require.NoError(t, err)
	assert.Empty(t, me.Avatar)
}

func TestSetPassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	anna := f.register(t, "anna")

	err := f.service.SetPassword(ctx, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "another-pass"}, anna.ID)
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, f.service.SetPassword(ctx, domain.SetPasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "another-pass"}, anna.ID))

	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.service.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "another-pass"})
	assert.NoError(t, err)
}

func TestFollowRepository_Constraints(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	anna := uuid.MustParse(f.register(t, "anna").ID)
	boris := uuid.MustParse(f.register(t, "boris").ID)
	carol := uuid.MustParse(f.register(t, "carol").ID)

	require.NoError(t, f.follows.CreateFollow(ctx, boris, anna))
	assert.ErrorIs(t, f.follows.CreateFollow(ctx, boris, anna), domain.ErrAlreadySubscribed)
	require.NoError(t, f.follows.CreateFollow(ctx, carol, anna))

	followers, err := f.follows.GetFollowers(ctx, anna)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "boris", followers[0].Username)

	deleted, err := f.follows.DeleteFollow(ctx, boris, anna)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.follows.DeleteFollow(ctx, boris, anna)
	require.NoError(t, err)
	assert.False(t, deleted)
}
