package domain

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID     = NewNotFoundError("resource")
	ErrTokenNotFound = NewUnauthorizedError("authentication credentials were not provided")
	ErrTokenInvalid  = NewUnauthorizedError("token is invalid")
	ErrTokenExpired  = NewUnauthorizedError("token is expired")
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	MaxPage         = 100000
)

type (
	PaginationRequest struct {
		Page  int `query:"page"`
		Limit int `query:"limit"`
	}

	// PaginatedResponse is a bounded page of results plus navigation links.
	PaginatedResponse struct {
		Count    int64  `json:"count"`
		Next     string `json:"next"`
		Previous string `json:"previous"`
		Results  any    `json:"results"`
	}
)
