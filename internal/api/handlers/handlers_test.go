package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram/cmd/config"
	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testApp struct {
	app    *fiber.App
	db     *gorm.DB
	mailer *testutil.MailerStub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)
	mailer := &testutil.MailerStub{}
	app, err := config.NewAppWith(db, config.Dependencies{
		ImageStore: testutil.NewImageStoreStub(),
		Mailer:     mailer,
		JWTSecret:  "test-secret",
		AppURL:     "http://foodgram.test",
		RateLimit:  1000,
	})
	require.NoError(t, err)
	return &testApp{app: app, db: db, mailer: mailer}
}

func (a *testApp) do(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}
	resp, err := a.app.Test(req, 10000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// signUp registers a user and returns its id and auth token.
func (a *testApp) signUp(t *testing.T, username string) (string, string) {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/users/", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "First",
		"last_name":  "Last",
		"password":   "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered struct {
		ID string `json:"id"`
	}
	decode(t, resp, &registered)

	resp = a.do(t, http.MethodPost, "/api/auth/token/login/", "", map[string]string{
		"email":    username + "@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		AuthToken string `json:"auth_token"`
	}
	decode(t, resp, &login)
	require.NotEmpty(t, login.AuthToken)
	return registered.ID, login.AuthToken
}

func (a *testApp) ingredient(t *testing.T, name, unit string) string {
	t.Helper()
	i := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, a.db.Create(i).Error)
	return i.ID.String()
}

func recipeBody(name string, ingredients ...map[string]any) map[string]any {
	return map[string]any{
		"name":         name,
		"text":         "Boil and serve.",
		"image":        testutil.PNGDataURI,
		"cooking_time": 20,
		"ingredients":  ingredients,
	}
}

func TestRecipeFlow(t *testing.T) {
	a := newTestApp(t)
	_, token := a.signUp(t, "anna")
	salt := a.ingredient(t, "Salt", "g")
	water := a.ingredient(t, "Water", "ml")

	resp := a.do(t, http.MethodPost, "/api/recipes/", token, recipeBody("Soup",
		map[string]any{"id": salt, "amount": 5},
		map[string]any{"id": water, "amount": 200},
	))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Ingredients []struct {
			Name   string `json:"name"`
			Amount int    `json:"amount"`
		} `json:"ingredients"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "Soup", created.Name)
	require.Len(t, created.Ingredients, 2)

	resp = a.do(t, http.MethodGet, "/api/recipes/"+created.ID+"/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Name        string `json:"name"`
		CookingTime int    `json:"cooking_time"`
		IsFavorited bool   `json:"is_favorited"`
		Ingredients []any  `json:"ingredients"`
	}
	decode(t, resp, &detail)
	assert.Equal(t, "Soup", detail.Name)
	assert.Equal(t, 20, detail.CookingTime)
	assert.False(t, detail.IsFavorited)
	assert.Len(t, detail.Ingredients, 2)

	resp = a.do(t, http.MethodPost, "/api/recipes/"+created.ID+"/favorite/", token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = a.do(t, http.MethodPost, "/api/recipes/"+created.ID+"/favorite/", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = a.do(t, http.MethodDelete, "/api/recipes/"+created.ID+"/favorite/", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = a.do(t, http.MethodDelete, "/api/recipes/"+created.ID+"/favorite/", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/recipes/"+created.ID+"/shopping_cart/", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "shopping_list.txt")
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/plain"))
	report, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(report), "1. Salt — 5 g")
	assert.Contains(t, string(report), "2. Water — 200 ml")

	resp = a.do(t, http.MethodPost, "/api/recipes/send_shopping_cart/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, a.mailer.Sent, 1)

	resp = a.do(t, http.MethodGet, "/api/recipes/"+created.ID+"/get-link/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var link map[string]string
	decode(t, resp, &link)
	assert.Equal(t, "http://foodgram.test/s/"+created.ID, link["short-link"])

	resp = a.do(t, http.MethodGet, "/s/"+created.ID+"/", "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/recipes/"+created.ID, resp.Header.Get(fiber.HeaderLocation))

	resp = a.do(t, http.MethodDelete, "/api/recipes/"+created.ID+"/", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = a.do(t, http.MethodGet, "/api/recipes/"+created.ID+"/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecipeErrors(t *testing.T) {
	a := newTestApp(t)
	_, annaToken := a.signUp(t, "anna")
	_, borisToken := a.signUp(t, "boris")
	salt := a.ingredient(t, "Salt", "g")

	resp := a.do(t, http.MethodPost, "/api/recipes/", "", recipeBody("Soup", map[string]any{"id": salt, "amount": 5}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/recipes/", "garbage", recipeBody("Soup", map[string]any{"id": salt, "amount": 5}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/recipes/", annaToken, recipeBody("Soup",
		map[string]any{"id": salt, "amount": 5},
		map[string]any{"id": salt, "amount": 3},
	))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decode(t, resp, nil)
	assert.False(t, env.Status)
	assert.Contains(t, env.Error, "non-unique ingredients")

	resp = a.do(t, http.MethodPost, "/api/recipes/", annaToken, recipeBody("Soup", map[string]any{"id": salt, "amount": 0}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/recipes/", annaToken, recipeBody("Soup", map[string]any{"id": salt, "amount": 5}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)

	resp = a.do(t, http.MethodPatch, "/api/recipes/"+created.ID+"/", borisToken, recipeBody("Mine", map[string]any{"id": salt, "amount": 1}))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/recipes/not-a-uuid/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/s/00000000-0000-0000-0000-000000000000/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserEndpoints(t *testing.T) {
	a := newTestApp(t)
	annaID, annaToken := a.signUp(t, "anna")
	_, borisToken := a.signUp(t, "boris")

	resp := a.do(t, http.MethodGet, "/api/users/me/", annaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	decode(t, resp, &me)
	assert.Equal(t, annaID, me.ID)
	assert.Equal(t, "anna", me.Username)

	resp = a.do(t, http.MethodGet, "/api/users/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/users/"+annaID+"/subscribe/?recipes_limit=2", borisToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = a.do(t, http.MethodPost, "/api/users/"+annaID+"/subscribe/", borisToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = a.do(t, http.MethodPost, "/api/users/"+annaID+"/subscribe/", annaToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/users/"+annaID+"/", borisToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		IsSubscribed bool `json:"is_subscribed"`
	}
	decode(t, resp, &profile)
	assert.True(t, profile.IsSubscribed)

	resp = a.do(t, http.MethodGet, "/api/users/subscriptions/", borisToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var subs struct {
		Count   int64 `json:"count"`
		Results []struct {
			Username     string `json:"username"`
			RecipesCount int64  `json:"recipes_count"`
		} `json:"results"`
	}
	decode(t, resp, &subs)
	assert.EqualValues(t, 1, subs.Count)
	require.Len(t, subs.Results, 1)
	assert.Equal(t, "anna", subs.Results[0].Username)

	resp = a.do(t, http.MethodDelete, "/api/users/"+annaID+"/subscribe/", borisToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodPut, "/api/users/me/avatar/", annaToken, map[string]string{"avatar": testutil.PNGDataURI})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = a.do(t, http.MethodDelete, "/api/users/me/avatar/", annaToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = a.do(t, http.MethodDelete, "/api/users/me/avatar/", annaToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/users/set_password/", annaToken, map[string]string{
		"current_password": "s3cret-pass",
		"new_password":     "brand-new-pass",
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/users/?limit=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Count int64  `json:"count"`
		Next  string `json:"next"`
	}
	decode(t, resp, &page)
	assert.EqualValues(t, 2, page.Count)
	assert.Contains(t, page.Next, "page=2")

	resp = a.do(t, http.MethodPost, "/api/auth/token/logout/", annaToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(t, http.MethodPost, "/api/users/", "", map[string]string{
		"email":      "not-an-email",
		"username":   "bad name!",
		"first_name": "F",
		"last_name":  "L",
		"password":   "s3cret-pass",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decode(t, resp, nil)
	assert.Contains(t, env.Error, "Email")
	assert.Contains(t, env.Error, "username")
}

func TestIngredientEndpointsAndMetrics(t *testing.T) {
	a := newTestApp(t)
	salt := a.ingredient(t, "Salt", "g")
	a.ingredient(t, "Sugar", "g")
	a.ingredient(t, "Water", "ml")

	resp := a.do(t, http.MethodGet, "/api/ingredients/?name=s", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []struct {
		Name string `json:"name"`
	}
	decode(t, resp, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "Salt", items[0].Name)
	assert.Equal(t, "Sugar", items[1].Name)

	resp = a.do(t, http.MethodGet, "/api/ingredients/"+salt+"/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPanickingHandlerAnswers500(t *testing.T) {
	a := newTestApp(t)
	a.app.Get("/api/explode", func(*fiber.Ctx) error {
		panic("unexpected nil")
	})

	resp := a.do(t, http.MethodGet, "/api/explode", "", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateRecipeWithUppercaseIngredientID(t *testing.T) {
	a := newTestApp(t)
	_, token := a.signUp(t, "anna")
	salt := a.ingredient(t, "Salt", "g")

	resp := a.do(t, http.MethodPost, "/api/recipes/", token, recipeBody("Soup",
		map[string]any{"id": strings.ToUpper(salt), "amount": 5},
	))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/recipes/", token, recipeBody("Soup",
		map[string]any{"id": salt, "amount": 5},
		map[string]any{"id": "urn:uuid:" + salt, "amount": 3},
	))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
