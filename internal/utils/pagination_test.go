package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paginate(t *testing.T, target string, count int64) (int, int, domain.PaginatedResponse) {
	t.Helper()
	var page, limit int
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		page, limit = ParsePagination(c)
		return c.JSON(NewPaginatedResponse(c, []int{}, count, page, limit))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body domain.PaginatedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return page, limit, body
}

func TestParsePagination_Defaults(t *testing.T) {
	page, limit, body := paginate(t, "/items", 3)
	assert.Equal(t, 1, page)
	assert.Equal(t, domain.DefaultPageSize, limit)
	assert.EqualValues(t, 3, body.Count)
	assert.Empty(t, body.Next)
	assert.Empty(t, body.Previous)
}

func TestParsePagination_ClampsAndRejectsGarbage(t *testing.T) {
	page, limit, _ := paginate(t, "/items?page=-3&limit=abc", 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, domain.DefaultPageSize, limit)

	_, limit, _ = paginate(t, "/items?limit=1000", 0)
	assert.Equal(t, domain.MaxPageSize, limit)

	page, _, _ = paginate(t, "/items?page=9223372036854775807&limit=100", 0)
	assert.Equal(t, domain.MaxPage, page)

	page, _, _ = paginate(t, "/items?page=99999999999999999999", 0)
	assert.Equal(t, 1, page)
}

func TestNewPaginatedResponse_Links(t *testing.T) {
	_, _, body := paginate(t, "/items?page=2&limit=2&author=x", 5)
	assert.Equal(t, "http://example.com/items?author=x&limit=2&page=3", body.Next)
	assert.Equal(t, "http://example.com/items?author=x&limit=2&page=1", body.Previous)

	_, _, body = paginate(t, "/items?page=3&limit=2", 5)
	assert.Empty(t, body.Next)
}

func TestParseRecipesLimit(t *testing.T) {
	var got []int
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = append(got, ParseRecipesLimit(c))
		return nil
	})
	for _, target := range []string{"/", "/?recipes_limit=2", "/?recipes_limit=0", "/?recipes_limit=-1", "/?recipes_limit=x"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
	}
	assert.Equal(t, []int{domain.DefaultRecipesLimit, 2, 0, domain.DefaultRecipesLimit, domain.DefaultRecipesLimit}, got)
}
