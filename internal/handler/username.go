package handler

import (
	"context"
	"strings"

	apperrors "github.com/micahlt/scratchverifier/internal/errors"
	"github.com/micahlt/scratchverifier/internal/scratch"
	"github.com/micahlt/scratchverifier/internal/util"
)

// checkUsername validates the path parameter and confirms the account exists
// on Scratch. Returns the case-folded canonical username; Scratch usernames
// are case-insensitive.
func checkUsername(ctx context.Context, sc *scratch.Client, raw string) (string, error) {
	if !util.IsValidUsername(raw) {
		return "", apperrors.ValidationError("Username must be 3-20 characters of letters, digits, _ or -")
	}

	user, err := sc.GetUser(ctx, raw)
	if err != nil {
		return "", apperrors.External("scratch users api", err)
	}
	if user == nil {
		return "", apperrors.NotFound("Scratch user")
	}
	return strings.ToLower(raw), nil
}
