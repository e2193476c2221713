package utils

import (
	"fmt"
	"net/url"
	"strconv"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

// ParsePagination reads page and limit, falling back to the defaults and
// clamping limit to the maximum page size.
func ParsePagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > domain.MaxPage {
		page = domain.MaxPage
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}
	return page, limit
}

// ParseRecipesLimit reads recipes_limit for embedded author recipes.
func ParseRecipesLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit", strconv.Itoa(domain.DefaultRecipesLimit)))
	if err != nil || limit < 0 {
		return domain.DefaultRecipesLimit
	}
	return limit
}

func NewPaginatedResponse(c *fiber.Ctx, results any, count int64, page, limit int) domain.PaginatedResponse {
	res := domain.PaginatedResponse{Count: count, Results: results}
	if int64(page*limit) < count {
		res.Next = pageURL(c, page+1)
	}
	if page > 1 {
		res.Previous = pageURL(c, page-1)
	}
	return res
}

func pageURL(c *fiber.Ctx, page int) string {
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		query.Add(string(key), string(value))
	})
	query.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s%s?%s", c.BaseURL(), c.Path(), query.Encode())
}
