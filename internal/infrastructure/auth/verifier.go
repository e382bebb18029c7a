package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/spreadpools/pickem-backend/internal/domain/user"
	"github.com/spreadpools/pickem-backend/internal/usecase"
)

// PrincipalResolver maps a verified token subject to the account it names.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, username string) (user.Principal, error)
}

// Verifier checks bearer tokens and resolves them to a request principal.
// Tokens are signed locally, so verification never leaves the process.
type Verifier struct {
	tokens   *TokenManager
	resolver PrincipalResolver
}

func NewVerifier(tokens *TokenManager, resolver PrincipalResolver) *Verifier {
	return &Verifier{tokens: tokens, resolver: resolver}
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	username, err := v.tokens.Verify(token)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	return v.resolver.ResolvePrincipal(ctx, username)
}
