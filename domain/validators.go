package domain

import (
	"fmt"
	"regexp"
)

const (
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000
	MinCookingTime      = 1
	MaxCookingTime      = 32000

	MaxRecipeNameLength = 200
	MaxUsernameLength   = 150
	MaxEmailLength      = 254
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func ValidateUsername(username string) error {
	if !ValidUsername(username) {
		return NewValidationError("username may contain only letters, digits and @/./+/-/_")
	}
	if len(username) > MaxUsernameLength {
		return NewValidationError(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	return nil
}

func ValidateAmount(amount int) error {
	if amount < MinIngredientAmount || amount > MaxIngredientAmount {
		return NewValidationError(fmt.Sprintf("amount must be between %d and %d", MinIngredientAmount, MaxIngredientAmount))
	}
	return nil
}

func ValidateCookingTime(minutes int) error {
	if minutes < MinCookingTime || minutes > MaxCookingTime {
		return NewValidationError(fmt.Sprintf("cooking time must be between %d and %d minutes", MinCookingTime, MaxCookingTime))
	}
	return nil
}
